package service

import (
	"context"

	"taskmgr/internal/metrics"
)

// Service defines the task operations available to commands and the UI.
// The store package provides the implementation; commands never touch
// storage directly.
type Service interface {
	// AddTask creates a task in the active collection and persists it.
	// Title and description are stored as given.
	AddTask(ctx context.Context, title, description string) (Task, error)

	// DeleteTask removes the task from whichever collection holds it and
	// persists both collections. found is false when no task matched.
	DeleteTask(ctx context.Context, id string) (found bool, err error)

	// ToggleCompletion moves the task to the other collection and flips
	// its Completed flag. Unknown ids are a no-op with found == false.
	ToggleCompletion(ctx context.Context, id string) (task Task, found bool, err error)

	// Tasks returns a copy of the in-memory collection.
	Tasks(c Collection) []Task

	// Reload re-reads the collection from storage, replacing memory.
	// Read failures are recovered as an empty collection.
	Reload(ctx context.Context, c Collection) []Task

	// Replace overwrites both collections (used by import).
	Replace(ctx context.Context, active, completed []Task) error

	// Metrics returns the recorder counting this service's operations.
	Metrics() *metrics.Recorder

	// Close releases the underlying storage.
	Close() error
}
