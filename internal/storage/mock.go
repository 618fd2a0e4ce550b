package storage

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store for tests. It can be told to fail writes,
// which exercises the cart's degraded persistence path.
type MockStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	Closed bool

	// FailPuts makes every Put return PutErr without storing anything.
	FailPuts bool

	// PutErr is the error returned when FailPuts is set.
	PutErr error

	// Puts counts Put calls, including failed ones.
	Puts int
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

// Seed stores a value directly, bypassing failure injection.
func (s *MockStore) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

// Get returns the stored value for key.
func (s *MockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores value under key, or fails when FailPuts is set.
func (s *MockStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts++
	if s.FailPuts {
		return s.PutErr
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (s *MockStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close marks the store closed.
func (s *MockStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}
