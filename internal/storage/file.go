package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File keeps each slot in its own file under a directory.
type File struct {
	dir string
}

// NewFile returns a file-backed store rooted at dir. The directory is
// created on first write.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("storage: directory required")
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get implements KV.
func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements KV. The value is written to a temporary file that is
// renamed over the slot, so readers see either the old or the new value.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path(key))
}

// Close implements KV.
func (f *File) Close() error { return nil }
