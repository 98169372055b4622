// Package debounce provides a cancellable timer that coalesces bursts of calls.
package debounce

import (
	"sync"
	"time"
)

// Timer runs the most recently scheduled function once the delay has elapsed
// without another Schedule call.
type Timer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
	gen   uint64
}

// New creates a timer with the given delay
func New(delay time.Duration) *Timer {
	if delay < 0 {
		delay = 0
	}
	return &Timer{delay: delay}
}

// Delay returns the debounce window
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Schedule arms the timer with fn, replacing and restarting any pending call
func (t *Timer) Schedule(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.fn = fn
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Cancel drops the pending call, reporting whether one existed
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := t.fn != nil
	t.stopLocked()
	return pending
}

// Flush runs the pending call immediately on the caller's goroutine
func (t *Timer) Flush() bool {
	t.mu.Lock()
	fn := t.fn
	t.stopLocked()
	t.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a call is waiting to fire
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

// stopLocked disarms the timer; a callback already in flight sees a newer
// generation and returns without running.
func (t *Timer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.fn = nil
	t.gen++
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.fn == nil {
		t.mu.Unlock()
		return
	}
	fn := t.fn
	t.fn = nil
	t.timer = nil
	t.mu.Unlock()

	fn()
}
