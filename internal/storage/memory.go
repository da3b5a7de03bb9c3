package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps documents in process memory. Used for tests and the
// ephemeral "memory" backend.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

func (m *MemoryKV) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
