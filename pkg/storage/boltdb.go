package storage

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketState = []byte("state")

	keyDatabaseURI = []byte("db-uri")
)

// BoltStore implements Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore creates a new BoltDB-backed store in the given data
// directory.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "jimm-operator.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketState); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketState, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SetDatabaseURI records the database connection URI.
func (s *BoltStore) SetDatabaseURI(uri string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		return b.Put(keyDatabaseURI, []byte(uri))
	})
}

// DatabaseURI returns the recorded URI, or "" when unset.
func (s *BoltStore) DatabaseURI() (string, error) {
	var uri string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if data := b.Get(keyDatabaseURI); data != nil {
			uri = string(data)
		}
		return nil
	})
	return uri, err
}
