// Package clock abstracts the timer used for the simulated loading delay so
// tests can drive it deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time and one-shot timers.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives once d has elapsed. If
	// d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Fake is a Clock whose time moves only when Advance is called.
// It is safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	current time.Time
	waiters []fakeWaiter
	changed *sync.Cond
}

type fakeWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewFake returns a Fake set to initial.
func NewFake(initial time.Time) *Fake {
	f := &Fake{current: initial}
	f.changed = sync.NewCond(&f.mu)
	return f
}

// Now implements Clock.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// After implements Clock.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- f.current
		return ch
	}
	f.waiters = append(f.waiters, fakeWaiter{deadline: f.current.Add(d), ch: ch})
	f.changed.Broadcast()
	return ch
}

// Advance moves time forward and fires every timer whose deadline passed.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = f.current.Add(d)
	pending := f.waiters[:0]
	for _, w := range f.waiters {
		if w.deadline.After(f.current) {
			pending = append(pending, w)
			continue
		}
		w.ch <- f.current
	}
	f.waiters = pending
	f.changed.Broadcast()
}

// WaitForTimers blocks until at least n timers are pending.
func (f *Fake) WaitForTimers(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.waiters) < n {
		f.changed.Wait()
	}
}

// Pending returns the number of timers that have not fired.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiters)
}
