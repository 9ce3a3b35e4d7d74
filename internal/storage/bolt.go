package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("snipbox")

// BoltSlot stores the collection under one key of a bbolt database file.
type BoltSlot struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the bbolt file at path.
func OpenBolt(path string) (*BoltSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt slot: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}
	return &BoltSlot{db: db}, nil
}

func (s *BoltSlot) Read() ([]byte, bool, error) {
	var out []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(SlotName))
		if v == nil {
			return nil
		}
		// v is only valid for the life of the transaction.
		out = cloneBytes(v)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read bolt slot: %w", err)
	}
	return out, found, nil
}

func (s *BoltSlot) Write(data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(SlotName), data)
	})
	if err != nil {
		return fmt.Errorf("write bolt slot: %w", err)
	}
	return nil
}

func (s *BoltSlot) Close() error {
	return s.db.Close()
}
