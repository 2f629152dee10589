// Package schedule runs presentation timers that can be cancelled on teardown.
package schedule

import (
	"sync"
	"time"
)

// Cancel stops a scheduled callback. Calling it after the callback ran, or
// more than once, is harmless.
type Cancel func()

// Scheduler runs fn once after d unless the returned Cancel is called first.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Cancel
}

// Real schedules on the runtime timer.
type Real struct{}

func (Real) AfterFunc(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Pulse holds a value that falls back to its zero value after a fixed window.
// Setting a new value supersedes the pending reset. After Stop the pulse
// ignores further writes and never fires again.
type Pulse[T comparable] struct {
	mu      sync.Mutex
	sched   Scheduler
	window  time.Duration
	value   T
	cancel  Cancel
	token   uint64
	stopped bool
}

func NewPulse[T comparable](sched Scheduler, window time.Duration) *Pulse[T] {
	if sched == nil {
		sched = Real{}
	}
	return &Pulse[T]{sched: sched, window: window}
}

// Set stores v and schedules the reset. Setting the zero value just clears.
func (p *Pulse[T]) Set(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.cancelLocked()

	var zero T
	p.value = v
	if v == zero {
		return
	}

	p.token++
	token := p.token
	p.cancel = p.sched.AfterFunc(p.window, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		// a later Set or Clear owns the value now
		if p.token != token || p.stopped {
			return
		}
		p.value = zero
		p.cancel = nil
	})
}

// Get returns the current value.
func (p *Pulse[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Clear drops the value and any pending reset.
func (p *Pulse[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	var zero T
	p.value = zero
}

// Stop cancels the pending reset for good.
func (p *Pulse[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	var zero T
	p.value = zero
	p.stopped = true
}

func (p *Pulse[T]) cancelLocked() {
	p.token++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
