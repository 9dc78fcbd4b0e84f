package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taskmgr/internal/service"
)

var (
	// ErrCorrupt means a slot holds data that does not parse as a task array.
	ErrCorrupt = errors.New("corrupt task data")

	// ErrQuotaExceeded means the serialized collection is larger than the
	// slot quota. Nothing was written.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnknownCollection is returned for a collection with no slot.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Adapter saves and loads whole collections. Every save rewrites the full
// slot.
type Adapter struct {
	kv    KV
	quota int
}

// NewAdapter wraps kv. quota is the per-slot byte limit; zero disables it.
func NewAdapter(kv KV, quota int) *Adapter {
	return &Adapter{kv: kv, quota: quota}
}

// Save writes tasks to the collection's slot as a JSON array.
func (a *Adapter) Save(ctx context.Context, c service.Collection, tasks []service.Task) error {
	key := c.Key()
	if key == "" {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if a.quota > 0 && len(data) > a.quota {
		return fmt.Errorf("%w: %s needs %d bytes, limit %d", ErrQuotaExceeded, key, len(data), a.quota)
	}

	if err := a.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// Load reads the collection's slot. It always returns a non-nil slice:
// empty when the slot was never written, holds no data, or cannot be read
// or parsed. In the last two cases the error is returned alongside.
func (a *Adapter) Load(ctx context.Context, c service.Collection) ([]service.Task, error) {
	key := c.Key()
	if key == "" {
		return []service.Task{}, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	data, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		return []service.Task{}, fmt.Errorf("storage: read %s: %w", key, err)
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []service.Task{}, nil
	}

	var tasks []service.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return []service.Task{}, fmt.Errorf("%w in %s: %v", ErrCorrupt, key, err)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// Close closes the underlying key-value store.
func (a *Adapter) Close() error {
	return a.kv.Close()
}
