package settings

import (
	"errors"
	"sync"
)

// ErrStoreUnavailable is returned by a MemoryStore told to fail.
var ErrStoreUnavailable = errors.New("store unavailable")

// MemoryStore is an in-process Store. It backs tests and dry runs.
type MemoryStore struct {
	mu         sync.Mutex
	values     map[string]string
	FailReads  bool
	FailWrites bool
}

// NewMemoryStore returns a store seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return "", false, ErrStoreUnavailable
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrStoreUnavailable
	}
	m.values[key] = value
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrStoreUnavailable
	}
	delete(m.values, key)
	return nil
}

// Values returns a copy of the stored values.
func (m *MemoryStore) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
