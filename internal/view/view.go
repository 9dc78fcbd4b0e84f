// Package view tracks which task collection is on screen and reloads it
// from storage, after a short loading delay, whenever the selection changes.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"taskmgr/internal/clock"
	"taskmgr/internal/logging"
	"taskmgr/internal/service"
)

// DefaultDelay is the simulated loading time before a reloaded view is shown.
const DefaultDelay = time.Second

// Reloader re-reads a collection from storage.
type Reloader interface {
	Reload(ctx context.Context, c service.Collection) []service.Task
}

// Request identifies one selection. Only the request carrying the latest
// generation is allowed to apply its reload.
type Request struct {
	View       service.Collection
	Generation uint64
}

// Result is the outcome of resolving a Request.
type Result struct {
	Request

	// Tasks holds the reloaded collection. Nil when Stale.
	Tasks []service.Task

	// Stale is true when a newer selection superseded the request; the
	// store was not touched.
	Stale bool
}

// Controller holds the current selection.
type Controller struct {
	reloader Reloader
	clock    clock.Clock
	delay    time.Duration
	log      logrus.FieldLogger

	mu         sync.Mutex
	current    service.Collection
	generation uint64
	loading    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the real clock.
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithDelay sets the loading delay. Zero reloads immediately.
func WithDelay(d time.Duration) Option {
	return func(ctl *Controller) { ctl.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// New returns a controller showing the active view.
func New(r Reloader, opts ...Option) *Controller {
	ctl := &Controller{
		reloader: r,
		clock:    clock.Real(),
		delay:    DefaultDelay,
		log:      logging.Discard(),
		current:  service.Active,
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Select switches to v and starts a reload. Selecting the view already
// shown reloads it too. Any earlier unresolved request becomes stale.
func (c *Controller) Select(v service.Collection) Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = v
	c.generation++
	c.loading = true
	c.log.WithFields(logrus.Fields{"view": v, "generation": c.generation}).Debug("view selected")
	return Request{View: v, Generation: c.generation}
}

// Resolve waits out the loading delay and then reloads the requested view,
// unless a newer selection has been made in the meantime.
func (c *Controller) Resolve(ctx context.Context, req Request) (Result, error) {
	select {
	case <-c.clock.After(c.delay):
	case <-ctx.Done():
		return Result{Request: req}, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Generation != c.generation {
		c.log.WithFields(logrus.Fields{
			"view":       req.View,
			"generation": req.Generation,
			"current":    c.generation,
		}).Debug("discarding stale reload")
		return Result{Request: req, Stale: true}, nil
	}

	tasks := c.reloader.Reload(ctx, req.View)
	c.loading = false
	return Result{Request: req, Tasks: tasks}, nil
}

// Current returns the selected view.
func (c *Controller) Current() service.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Loading reports whether the latest selection is still waiting for its
// reload.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Delay returns the configured loading delay.
func (c *Controller) Delay() time.Duration { return c.delay }
