package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketKV = []byte("kv")
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store is closed")

// KV implements domain.KVStore using BoltDB.
type KV struct {
	db     *bolt.DB
	mu     sync.RWMutex // Protects memory cache and closed
	closed bool

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]string
	// Bumped by every Put and Delete; a disk read is only promoted if no
	// write happened while it ran
	writes uint64

	beforePromote func() // Test hook run between the disk read and promotion
}

// Open opens (creating if needed) the database at path.
// An empty path gives a memory-only store that forgets everything on Close.
func Open(path string) (*KV, error) {
	if path == "" {
		return &KV{cache: make(map[string]string)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &KV{db: db, cache: make(map[string]string)}, nil
}

// Path returns the database file path (empty in memory-only mode)
func (s *KV) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

func (s *KV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *KV) Get(key string) (string, bool, error) {
	// Check memory cache first
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", false, ErrClosed
	}
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	gen := s.writes
	s.mu.RUnlock()

	if s.db == nil {
		return "", false, nil
	}

	// Read from BoltDB
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// string() copies; v is only valid inside the transaction
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !found {
		return "", false, nil
	}

	if s.beforePromote != nil {
		s.beforePromote()
	}

	// Promote to memory cache unless a write raced the read
	s.mu.Lock()
	if _, ok := s.cache[key]; !ok && s.writes == gen && !s.closed {
		s.cache[key] = value
	}
	s.mu.Unlock()

	return value, true, nil
}

func (s *KV) Put(key, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.writes++
	s.cache[key] = value
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), []byte(value))
	})
	if err != nil {
		// Keep the cache honest: the value on disk is unknown now
		s.mu.Lock()
		if s.cache[key] == value {
			delete(s.cache, key)
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *KV) Delete(key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.writes++
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
}
