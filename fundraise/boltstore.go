package fundraise

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/crowdlend/libcrowdlend-go/authz"
	"github.com/crowdlend/libcrowdlend-go/registry"
)

var (
	bucketProjects  = []byte("projects")
	bucketPositions = []byte("positions")
	bucketRoots     = []byte("whitelist_roots")
	bucketMeta      = []byte("meta")

	keyNextProjectID = []byte("next_project_id")
	keyNonce         = []byte("nonce")
)

// BoltStore is a bbolt-backed Store for durable project-ledger state.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("fundraise: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("fundraise: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketProjects, bucketPositions, bucketRoots, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fundraise: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// idKey encodes a project id as an 8-byte big-endian key.
func idKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// posKey encodes an (investor, project) pair as a composite key.
func posKey(investor registry.Address, projectID uint64) []byte {
	k := make([]byte, registry.AddressSize+8)
	copy(k, investor[:])
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

// Project returns the record for a project id.
func (s *BoltStore) Project(id uint64) (Project, error) {
	var p Project
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProjects).Get(idKey(id))
		if data == nil {
			return nil
		}
		return decodeGob(data, &p)
	})
	return p, err
}

// PutProject stores a project record.
func (s *BoltStore) PutProject(p Project) error {
	data, err := encodeGob(p)
	if err != nil {
		return fmt.Errorf("fundraise: encode project: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProjects).Put(idKey(p.ID), data)
	})
}

// NextProjectID allocates the next project id.
func (s *BoltStore) NextProjectID() (uint64, error) {
	var id uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if data := meta.Get(keyNextProjectID); data != nil {
			id = binary.BigEndian.Uint64(data)
		} else {
			id = 1
		}
		next := make([]byte, 8)
		binary.BigEndian.PutUint64(next, id+1)
		return meta.Put(keyNextProjectID, next)
	})
	return id, err
}

// Position returns an investor's position on a project.
func (s *BoltStore) Position(investor registry.Address, projectID uint64) (Position, error) {
	var pos Position
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPositions).Get(posKey(investor, projectID))
		if data == nil {
			return nil
		}
		return decodeGob(data, &pos)
	})
	return pos, err
}

// PutPosition stores an investor's position.
func (s *BoltStore) PutPosition(investor registry.Address, projectID uint64, pos Position) error {
	data, err := encodeGob(pos)
	if err != nil {
		return fmt.Errorf("fundraise: encode position: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPositions).Put(posKey(investor, projectID), data)
	})
}

// WhitelistRoot returns the current whitelist root for a project.
func (s *BoltStore) WhitelistRoot(projectID uint64) (authz.Root, error) {
	var root authz.Root
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRoots).Get(idKey(projectID))
		if data != nil {
			copy(root[:], data)
		}
		return nil
	})
	return root, err
}

// PutWhitelistRoot stores the whitelist root for a project.
func (s *BoltStore) PutWhitelistRoot(projectID uint64, root authz.Root) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRoots).Put(idKey(projectID), root[:])
	})
}

// Nonce returns the last consumed global nonce.
func (s *BoltStore) Nonce() (uint64, error) {
	var n uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyNonce); data != nil {
			n = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return n, err
}

// PutNonce stores the last consumed global nonce.
func (s *BoltStore) PutNonce(n uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data := make([]byte, 8)
		binary.BigEndian.PutUint64(data, n)
		return tx.Bucket(bucketMeta).Put(keyNonce, data)
	})
}
