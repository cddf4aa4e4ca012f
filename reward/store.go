package reward

import (
	"sync"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// Store persists reward state. Absent records read back as zero values; the
// zero value of each type is the correct initial state.
type Store interface {
	// Profile returns the reward profile for a user.
	Profile(user registry.Address) (Profile, error)

	// PutProfile stores a user's reward profile.
	PutProfile(user registry.Address, p Profile) error

	// Accrual returns the accrual for a (user, project) pair.
	Accrual(user registry.Address, projectID uint64) (Accrual, error)

	// PutAccrual stores the accrual for a (user, project) pair.
	PutAccrual(user registry.Address, projectID uint64, a Accrual) error

	// ProjectReward returns the per-project reward state.
	ProjectReward(projectID uint64) (ProjectReward, error)

	// PutProjectReward stores the per-project reward state.
	PutProjectReward(projectID uint64, pr ProjectReward) error

	// InviterStats returns aggregate referral statistics for an inviter.
	InviterStats(inviter registry.Address) (InviterStats, error)

	// PutInviterStats stores aggregate referral statistics.
	PutInviterStats(inviter registry.Address, s InviterStats) error
}

type accrualKey struct {
	user      registry.Address
	projectID uint64
}

// MemStore is an in-memory Store for testing and single-process deployments.
type MemStore struct {
	mu       sync.RWMutex
	profiles map[registry.Address]Profile
	accruals map[accrualKey]Accrual
	projects map[uint64]ProjectReward
	stats    map[registry.Address]InviterStats
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		profiles: make(map[registry.Address]Profile),
		accruals: make(map[accrualKey]Accrual),
		projects: make(map[uint64]ProjectReward),
		stats:    make(map[registry.Address]InviterStats),
	}
}

// Profile returns the reward profile for a user.
func (s *MemStore) Profile(user registry.Address) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[user], nil
}

// PutProfile stores a user's reward profile.
func (s *MemStore) PutProfile(user registry.Address, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[user] = p
	return nil
}

// Accrual returns the accrual for a (user, project) pair.
func (s *MemStore) Accrual(user registry.Address, projectID uint64) (Accrual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accruals[accrualKey{user, projectID}], nil
}

// PutAccrual stores the accrual for a (user, project) pair.
func (s *MemStore) PutAccrual(user registry.Address, projectID uint64, a Accrual) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accruals[accrualKey{user, projectID}] = a
	return nil
}

// ProjectReward returns the per-project reward state.
func (s *MemStore) ProjectReward(projectID uint64) (ProjectReward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[projectID], nil
}

// PutProjectReward stores the per-project reward state.
func (s *MemStore) PutProjectReward(projectID uint64, pr ProjectReward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[projectID] = pr
	return nil
}

// InviterStats returns aggregate referral statistics for an inviter.
func (s *MemStore) InviterStats(inviter registry.Address) (InviterStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[inviter], nil
}

// PutInviterStats stores aggregate referral statistics.
func (s *MemStore) PutInviterStats(inviter registry.Address, st InviterStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[inviter] = st
	return nil
}
