package reward

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

var (
	bucketProfiles = []byte("profiles")
	bucketAccruals = []byte("accruals")
	bucketProjects = []byte("project_rewards")
	bucketInviters = []byte("inviter_stats")
)

// BoltStore is a bbolt-backed Store for durable reward state.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("reward: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("reward: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketProfiles, bucketAccruals, bucketProjects, bucketInviters} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reward: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// projectKey encodes a project id as an 8-byte big-endian key.
func projectKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// userProjectKey encodes a (user, project) pair as a composite key.
func userProjectKey(user registry.Address, projectID uint64) []byte {
	k := make([]byte, registry.AddressSize+8)
	copy(k, user[:])
	binary.BigEndian.PutUint64(k[registry.AddressSize:], projectID)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// get reads a gob record; absent keys leave v at its zero value.
func (s *BoltStore) get(bucket, key []byte, v interface{}) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(key)
		if data == nil {
			return nil
		}
		return decodeGob(data, v)
	})
}

// put writes a gob record.
func (s *BoltStore) put(bucket, key []byte, v interface{}) error {
	data, err := encodeGob(v)
	if err != nil {
		return fmt.Errorf("reward: encode record: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(key, data)
	})
}

// Profile returns the reward profile for a user.
func (s *BoltStore) Profile(user registry.Address) (Profile, error) {
	var p Profile
	err := s.get(bucketProfiles, user[:], &p)
	return p, err
}

// PutProfile stores a user's reward profile.
func (s *BoltStore) PutProfile(user registry.Address, p Profile) error {
	return s.put(bucketProfiles, user[:], p)
}

// Accrual returns the accrual for a (user, project) pair.
func (s *BoltStore) Accrual(user registry.Address, projectID uint64) (Accrual, error) {
	var a Accrual
	err := s.get(bucketAccruals, userProjectKey(user, projectID), &a)
	return a, err
}

// PutAccrual stores the accrual for a (user, project) pair.
func (s *BoltStore) PutAccrual(user registry.Address, projectID uint64, a Accrual) error {
	return s.put(bucketAccruals, userProjectKey(user, projectID), a)
}

// ProjectReward returns the per-project reward state.
func (s *BoltStore) ProjectReward(projectID uint64) (ProjectReward, error) {
	var pr ProjectReward
	err := s.get(bucketProjects, projectKey(projectID), &pr)
	return pr, err
}

// PutProjectReward stores the per-project reward state.
func (s *BoltStore) PutProjectReward(projectID uint64, pr ProjectReward) error {
	return s.put(bucketProjects, projectKey(projectID), pr)
}

// InviterStats returns aggregate referral statistics for an inviter.
func (s *BoltStore) InviterStats(inviter registry.Address) (InviterStats, error) {
	var st InviterStats
	err := s.get(bucketInviters, inviter[:], &st)
	return st, err
}

// PutInviterStats stores aggregate referral statistics.
func (s *BoltStore) PutInviterStats(inviter registry.Address, st InviterStats) error {
	return s.put(bucketInviters, inviter[:], st)
}
