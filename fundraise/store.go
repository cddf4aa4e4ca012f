package fundraise

import (
	"sync"

	"github.com/crowdlend/libcrowdlend-go/authz"
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// Store persists project-ledger state. Absent records read back as zero
// values; project existence is decided by the record's caps.
type Store interface {
	// Project returns the record for a project id.
	Project(id uint64) (Project, error)

	// PutProject stores a project record.
	PutProject(p Project) error

	// NextProjectID allocates the next monotonically increasing project id.
	// Ids are never reused.
	NextProjectID() (uint64, error)

	// Position returns an investor's position on a project.
	Position(investor registry.Address, projectID uint64) (Position, error)

	// PutPosition stores an investor's position.
	PutPosition(investor registry.Address, projectID uint64, pos Position) error

	// WhitelistRoot returns the current whitelist root for a project.
	WhitelistRoot(projectID uint64) (authz.Root, error)

	// PutWhitelistRoot stores the whitelist root for a project.
	PutWhitelistRoot(projectID uint64, root authz.Root) error

	// Nonce returns the last consumed global nonce.
	Nonce() (uint64, error)

	// PutNonce stores the last consumed global nonce.
	PutNonce(n uint64) error
}

type positionKey struct {
	investor  registry.Address
	projectID uint64
}

// MemStore is an in-memory Store for testing and single-process deployments.
type MemStore struct {
	mu        sync.RWMutex
	projects  map[uint64]Project
	positions map[positionKey]Position
	roots     map[uint64]authz.Root
	nextID    uint64
	nonce     uint64
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store. Project ids start at 1.
func NewMemStore() *MemStore {
	return &MemStore{
		projects:  make(map[uint64]Project),
		positions: make(map[positionKey]Position),
		roots:     make(map[uint64]authz.Root),
		nextID:    1,
	}
}

// Project returns the record for a project id.
func (s *MemStore) Project(id uint64) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[id], nil
}

// PutProject stores a project record.
func (s *MemStore) PutProject(p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return nil
}

// NextProjectID allocates the next project id.
func (s *MemStore) NextProjectID() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

// Position returns an investor's position on a project.
func (s *MemStore) Position(investor registry.Address, projectID uint64) (Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions[positionKey{investor, projectID}], nil
}

// PutPosition stores an investor's position.
func (s *MemStore) PutPosition(investor registry.Address, projectID uint64, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[positionKey{investor, projectID}] = pos
	return nil
}

// WhitelistRoot returns the current whitelist root for a project.
func (s *MemStore) WhitelistRoot(projectID uint64) (authz.Root, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roots[projectID], nil
}

// PutWhitelistRoot stores the whitelist root for a project.
func (s *MemStore) PutWhitelistRoot(projectID uint64, root authz.Root) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[projectID] = root
	return nil
}

// Nonce returns the last consumed global nonce.
func (s *MemStore) Nonce() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nonce, nil
}

// PutNonce stores the last consumed global nonce.
func (s *MemStore) PutNonce(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonce = n
	return nil
}
