package kv

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// MemoryStore is a thread-safe in-memory Store implementation. It backs tests
// and development setups where no durable storage is configured.
type MemoryStore struct {
	data   sync.Map
	closed atomic.Bool

	// Statistics
	gets    atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get retrieves a value. The returned slice is a copy, so callers cannot
// mutate stored state.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	val, ok := s.data.Load(key)
	if !ok {
		return nil, ErrNotFound
	}

	s.gets.Add(1)
	stored := val.([]byte)
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a copy of the value so later mutation by the caller cannot
// corrupt stored state.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.data.Store(key, valueCopy)
	s.sets.Add(1)
	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.data.Delete(key)
	s.deletes.Add(1)
	return nil
}

// Keys returns all keys with the given prefix.
func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var keys []string
	s.data.Range(func(key, _ any) bool {
		k := key.(string)
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
		return true
	})
	return keys, nil
}

// Close marks the store closed. Further operations return ErrClosed.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}

// Stats returns operation counters, useful in tests.
func (s *MemoryStore) Stats() (gets, sets, deletes int64) {
	return s.gets.Load(), s.sets.Load(), s.deletes.Load()
}

var _ Store = (*MemoryStore)(nil)
