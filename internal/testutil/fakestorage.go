// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
)

// FakeStorage is an in-memory storage.KV for testing. It records every
// write and can be told to fail reads or writes per slot key.
type FakeStorage struct {
	mu     sync.Mutex
	slots  map[string][]byte
	writes []string

	// Error injection for testing, keyed by slot ("activeTasks", ...).
	GetErr map[string]error
	SetErr map[string]error
}

// NewFakeStorage creates an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		slots:  make(map[string][]byte),
		GetErr: make(map[string]error),
		SetErr: make(map[string]error),
	}
}

// Put seeds a slot without recording a write.
func (f *FakeStorage) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[key] = []byte(value)
}

// Raw returns the stored slot value and whether it exists.
func (f *FakeStorage) Raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.slots[key]
	return string(v), ok
}

// Writes returns the slot keys written so far, in order.
func (f *FakeStorage) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

// ResetWrites clears the write log.
func (f *FakeStorage) ResetWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = nil
}

// Get implements storage.KV.
func (f *FakeStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.GetErr[key]; err != nil {
		return nil, false, err
	}
	v, ok := f.slots[key]
	return append([]byte(nil), v...), ok, nil
}

// Set implements storage.KV.
func (f *FakeStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.SetErr[key]; err != nil {
		return err
	}
	f.slots[key] = append([]byte(nil), value...)
	f.writes = append(f.writes, key)
	return nil
}

// Close implements storage.KV.
func (f *FakeStorage) Close() error { return nil }
