package cache

import (
	"context"
	"sync"
)

// Memory is an in-process Cache guarded by a mutex.
type Memory struct {
	mu      sync.RWMutex
	entries map[Kind]Entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[Kind]Entry)}
}

func (m *Memory) Load(_ context.Context, kind Kind) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[kind]
	return e, ok, nil
}

func (m *Memory) Save(_ context.Context, kind Kind, entry Entry) error {
	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)
	entry.Data = data

	m.mu.Lock()
	m.entries[kind] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(_ context.Context, kinds ...Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range kinds {
		delete(m.entries, k)
	}
	return nil
}
