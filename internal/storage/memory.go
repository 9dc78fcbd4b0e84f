package storage

import (
	"context"
	"sync"
)

// Memory is a process-local KV.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Get implements KV.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements KV.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Close implements KV.
func (m *Memory) Close() error { return nil }
