// Package storage persists task collections as JSON arrays in named
// key-value slots.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
)

// KV is a durable string-keyed slot store. Set replaces the whole value
// of a slot or fails without changing it.
type KV interface {
	// Get returns the slot value. ok is false if the slot was never written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set overwrites the slot value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases resources held by the store.
	Close() error
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultQuotaBytes is the per-slot limit, matching the usual browser
// local storage allowance.
const DefaultQuotaBytes = 5 << 20

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("storage: invalid slot key %q", key)
	}
	return nil
}

// ParseBackend validates a backend name.
func ParseBackend(name string) (string, error) {
	switch name {
	case BackendFile, BackendSQLite, BackendMemory:
		return name, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of BackendFile, BackendSQLite, BackendMemory.
	Backend string

	// Dir is the directory holding the storage files.
	Dir string

	// QuotaBytes limits the serialized size of one slot. Zero disables it.
	QuotaBytes int

	Logger logrus.FieldLogger
}

// Open creates the adapter for the configured backend.
func Open(opts Options) (*Adapter, error) {
	var (
		kv  KV
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		kv, err = NewFile(filepath.Join(opts.Dir, "storage"))
	case BackendSQLite:
		kv, err = OpenSQLite(filepath.Join(opts.Dir, "tasks.db"), opts.Logger)
	case BackendMemory:
		kv = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewAdapter(kv, opts.QuotaBytes), nil
}
