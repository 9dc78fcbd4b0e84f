// Package store holds the in-memory task collections and writes every
// change through to storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskmgr/internal/logging"
	"taskmgr/internal/metrics"
	"taskmgr/internal/service"
	"taskmgr/internal/storage"
)

// Persister saves and loads whole collections.
type Persister interface {
	Save(ctx context.Context, c service.Collection, tasks []service.Task) error
	Load(ctx context.Context, c service.Collection) ([]service.Task, error)
}

var (
	// ErrPersist wraps storage write failures. The in-memory change has
	// been applied; storage may still hold the previous state.
	ErrPersist = errors.New("changes not saved")

	// ErrInvalidSnapshot is returned by Replace for inconsistent input.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides task id generation.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithLogger sets the logger used for recovered storage errors.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// Store implements service.Service. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	persister Persister
	newID     func() string
	log       logrus.FieldLogger
	metrics   *metrics.Recorder

	active    []service.Task
	completed []service.Task

	// completedLoaded is false until the completed collection has been
	// read from storage.
	completedLoaded bool
}

var _ service.Service = (*Store)(nil)

// New creates a store and loads the active collection. The completed
// collection is loaded on first use.
func New(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		newID:     uuid.NewString,
		log:       logging.Discard(),
		metrics:   metrics.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.active = s.load(ctx, service.Active)
	s.completed = []service.Task{}
	s.updateGauges()
	return s
}

// AddTask implements service.Service.
func (s *Store) AddTask(ctx context.Context, title, description string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := service.Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
	}
	s.active = service.Append(s.active, task)
	s.updateGauges()

	err := s.save(ctx, service.Active)
	s.record("add", true, err)
	return task, err
}

// DeleteTask implements service.Service. Both collections are written
// even when only one, or neither, held the task.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureCompleted(ctx)

	var foundActive, foundCompleted bool
	s.active, _, foundActive = service.Remove(s.active, id)
	s.completed, _, foundCompleted = service.Remove(s.completed, id)
	s.updateGauges()

	err := errors.Join(
		s.save(ctx, service.Active),
		s.save(ctx, service.Completed),
	)

	found := foundActive || foundCompleted
	if !found {
		s.log.WithField("id", id).Debug("delete: no task with this id")
	}
	s.record("delete", found, err)
	return found, err
}

// ToggleCompletion implements service.Service. The destination collection
// is written before the source, so a failed write never drops the task
// from storage.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (service.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureCompleted(ctx)

	active, completed, moved, from, found := service.Toggle(s.active, s.completed, id)
	if !found {
		s.log.WithField("id", id).Debug("toggle: no task with this id")
		s.record("toggle", false, nil)
		return service.Task{}, false, nil
	}
	s.active, s.completed = active, completed
	s.updateGauges()

	err := s.save(ctx, from.Other())
	if err == nil {
		err = s.save(ctx, from)
	}
	s.record("toggle", true, err)
	return moved, true, err
}

// Tasks implements service.Service.
func (s *Store) Tasks(c service.Collection) []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return service.Clone(s.list(c))
}

// Reload implements service.Service.
func (s *Store) Reload(ctx context.Context, c service.Collection) []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.load(ctx, c)
	switch c {
	case service.Active:
		s.active = tasks
	case service.Completed:
		s.completed = tasks
		s.completedLoaded = true
	}
	s.updateGauges()
	return service.Clone(tasks)
}

// Replace implements service.Service.
func (s *Store) Replace(ctx context.Context, active, completed []service.Task) error {
	if err := validateSnapshot(active, completed); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = service.Clone(active)
	s.completed = service.Clone(completed)
	s.completedLoaded = true
	s.updateGauges()

	err := errors.Join(
		s.save(ctx, service.Active),
		s.save(ctx, service.Completed),
	)
	s.record("replace", true, err)
	return err
}

// Metrics implements service.Service.
func (s *Store) Metrics() *metrics.Recorder { return s.metrics }

// Close implements service.Service.
func (s *Store) Close() error {
	if c, ok := s.persister.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) list(c service.Collection) []service.Task {
	if c == service.Completed {
		return s.completed
	}
	return s.active
}

// load reads a collection, recovering any error as an empty collection.
func (s *Store) load(ctx context.Context, c service.Collection) []service.Task {
	tasks, err := s.persister.Load(ctx, c)
	if err != nil {
		kind := metrics.KindRead
		if errors.Is(err, storage.ErrCorrupt) {
			kind = metrics.KindCorrupt
		}
		s.metrics.StorageError(string(c), kind)
		s.log.WithError(err).WithField("collection", c).Warn("unreadable collection treated as empty")
		return []service.Task{}
	}
	if tasks == nil {
		return []service.Task{}
	}
	return tasks
}

// ensureCompleted loads the completed collection before a write could
// overwrite stored tasks that were never read.
func (s *Store) ensureCompleted(ctx context.Context) {
	if s.completedLoaded {
		return
	}
	s.completed = s.load(ctx, service.Completed)
	s.completedLoaded = true
}

func (s *Store) save(ctx context.Context, c service.Collection) error {
	if err := s.persister.Save(ctx, c, s.list(c)); err != nil {
		s.metrics.StorageError(string(c), metrics.KindWrite)
		s.log.WithError(err).WithField("collection", c).Error("write failed")
		return fmt.Errorf("%w: %s: %w", ErrPersist, c, err)
	}
	return nil
}

func (s *Store) record(op string, found bool, err error) {
	switch {
	case err != nil:
		s.metrics.Operation(op, metrics.ResultError)
	case !found:
		s.metrics.Operation(op, metrics.ResultNotFound)
	default:
		s.metrics.Operation(op, metrics.ResultOK)
	}
}

func (s *Store) updateGauges() {
	s.metrics.SetTasks(string(service.Active), len(s.active))
	s.metrics.SetTasks(string(service.Completed), len(s.completed))
}

func validateSnapshot(active, completed []service.Task) error {
	seen := make(map[string]bool, len(active)+len(completed))
	check := func(c service.Collection, tasks []service.Task) error {
		for _, t := range tasks {
			if t.ID == "" {
				return fmt.Errorf("%w: task %q has no id", ErrInvalidSnapshot, t.Title)
			}
			if seen[t.ID] {
				return fmt.Errorf("%w: duplicate id %s", ErrInvalidSnapshot, t.ID)
			}
			seen[t.ID] = true
			if !c.Belongs(t) {
				return fmt.Errorf("%w: task %s has completed=%v in %s", ErrInvalidSnapshot, t.ID, t.Completed, c)
			}
		}
		return nil
	}
	if err := check(service.Active, active); err != nil {
		return err
	}
	return check(service.Completed, completed)
}
