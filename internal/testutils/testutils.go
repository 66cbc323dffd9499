// Package testutils holds helpers shared by package tests.
package testutils

import (
	"os"
	"sync"
	"testing"

	"github.com/scrap-app/cli/internal/auth"
)

// SetEnv sets environment variables for the duration of a test and returns a
// function restoring the previous values.
func SetEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()

	previous := make(map[string]*string, len(vars))
	for k, v := range vars {
		if old, ok := os.LookupEnv(k); ok {
			previous[k] = &old
		} else {
			previous[k] = nil
		}
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("setenv %s: %v", k, err)
		}
	}

	return func() {
		for k, old := range previous {
			if old == nil {
				_ = os.Unsetenv(k)
			} else {
				_ = os.Setenv(k, *old)
			}
		}
	}
}

// MemoryStore is an in-memory auth.Store with failure injection.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	GetErr error
	SetErr error
	DelErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get implements auth.Store.
func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", auth.ErrNotFound
	}
	return v, nil
}

// Set implements auth.Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

// Delete implements auth.Store.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DelErr != nil {
		return m.DelErr
	}
	if _, ok := m.values[key]; !ok {
		return auth.ErrNotFound
	}
	delete(m.values, key)
	return nil
}

// Put stores value under key without going through the lifecycle.
func (m *MemoryStore) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
