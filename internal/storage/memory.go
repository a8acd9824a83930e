// Package storage holds the seen-set implementations used by watch mode.
package storage

import (
	"context"
	"sync"
)

// MemorySet is a process-lifetime set of identifiers. It is lost on restart.
type MemorySet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewMemorySet returns an empty set
func NewMemorySet() *MemorySet {
	return &MemorySet{ids: make(map[string]struct{})}
}

// Has reports whether id was added
func (m *MemorySet) Has(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[id]
	return ok, nil
}

// Add inserts id; adding twice is a no-op
func (m *MemorySet) Add(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = struct{}{}
	return nil
}

// Len returns the number of identifiers
func (m *MemorySet) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Remove deletes id
func (m *MemorySet) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, id)
}
