package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"khata/internal/core"
)

// Bucket names.
const (
	BucketEntries = "entries"
	BucketGoals   = "goals"
)

// Store persists both collections in a single bbolt file. Records are keyed
// by their big-endian ID so bucket iteration returns insertion order.
type Store struct {
	db *bolt.DB
}

// New opens the database file and initializes buckets. The open times out
// instead of blocking when another process holds the file lock.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketEntries, BucketGoals} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadEntries returns every entry in key order.
func (s *Store) LoadEntries(_ context.Context) ([]core.Entry, error) {
	var entries []core.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketEntries))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketEntries)
		}
		return b.ForEach(func(_, v []byte) error {
			var e core.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal entry: %w", err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}

// SaveEntries replaces the entries bucket with the given collection.
func (s *Store) SaveEntries(_ context.Context, entries []core.Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(BucketEntries)); err != nil {
			return fmt.Errorf("failed to reset bucket %s: %w", BucketEntries, err)
		}
		b, err := tx.CreateBucket([]byte(BucketEntries))
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketEntries, err)
		}
		for _, e := range entries {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal entry: %w", err)
			}
			if err := b.Put(itob(int64(e.ID)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadGoals returns every goal in key order.
func (s *Store) LoadGoals(_ context.Context) ([]core.Goal, error) {
	var goals []core.Goal
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketGoals))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketGoals)
		}
		return b.ForEach(func(_, v []byte) error {
			var g core.Goal
			if err := json.Unmarshal(v, &g); err != nil {
				return fmt.Errorf("failed to unmarshal goal: %w", err)
			}
			goals = append(goals, g)
			return nil
		})
	})
	return goals, err
}

// SaveGoals replaces the goals bucket with the given collection.
func (s *Store) SaveGoals(_ context.Context, goals []core.Goal) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(BucketGoals)); err != nil {
			return fmt.Errorf("failed to reset bucket %s: %w", BucketGoals, err)
		}
		b, err := tx.CreateBucket([]byte(BucketGoals))
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketGoals, err)
		}
		for _, g := range goals {
			data, err := json.Marshal(g)
			if err != nil {
				return fmt.Errorf("failed to marshal goal: %w", err)
			}
			if err := b.Put(itob(int64(g.ID)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// itob converts an int64 to a byte slice for use as a bbolt key.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
