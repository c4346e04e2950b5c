package mocks

import (
	"context"
	"sync"
)

// MockKV is an in-memory implementation of the KVStore interface for testing
type MockKV struct {
	mu     sync.RWMutex
	values map[string][]byte

	// SetErr, when non-nil, is returned by every Set call
	SetErr error
	// Writes counts successful Set calls
	Writes int
}

// NewMockKV creates a new empty mock store
func NewMockKV() *MockKV {
	return &MockKV{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value
func (m *MockKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value
func (m *MockKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = append([]byte(nil), value...)
	m.Writes++
	return nil
}

// Delete removes key
func (m *MockKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Close is a no-op
func (m *MockKV) Close() error { return nil }

// Put seeds a raw value without counting it as a write
func (m *MockKV) Put(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = []byte(value)
}

// Has reports whether key is present
func (m *MockKV) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}
