package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// entry keeps the serialized payload with its expiry. Expired entries are
// logically absent; they are physically removed on the next Get or Len.
type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is the in-process backend: a concurrent key-value store with
// per-key granularity and no global lock. Initialized empty at process
// start, torn down only at process exit.
type MemoryStore struct {
	entries sync.Map
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Get loads the value for key into dest, reporting a miss for absent or
// expired entries.
func (s *MemoryStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return false, nil
	}
	e := v.(entry)
	if s.now().After(e.expiresAt) {
		s.entries.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key. A concurrent Set for the same key races;
// last write wins.
func (s *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries.Store(key, entry{payload: payload, expiresAt: s.now().Add(ttl)})
	return nil
}

// Clear evicts everything and returns the number of entries removed.
func (s *MemoryStore) Clear(_ context.Context) (int, error) {
	count := 0
	s.entries.Range(func(key, _ interface{}) bool {
		s.entries.Delete(key)
		count++
		return true
	})
	return count, nil
}

// Len counts live entries, evicting expired ones as it goes.
func (s *MemoryStore) Len(_ context.Context) int {
	count := 0
	now := s.now()
	s.entries.Range(func(key, v interface{}) bool {
		if now.After(v.(entry).expiresAt) {
			s.entries.Delete(key)
			return true
		}
		count++
		return true
	})
	return count
}
