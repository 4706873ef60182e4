package standoff

import (
	"sync"
	"time"
)

// Timer fires a callback after a duration unless stopped. It backs the
// decision cadence of the standoff loop and is safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewTimer creates and starts a timer that calls onFire after duration.
// onFire runs on a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
func NewTimer(duration time.Duration, onFire func()) *Timer {
	t := &Timer{}
	t.timer = time.AfterFunc(duration, func() {
		t.mu.Lock()
		stopped := t.stopped
		t.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return t
}

// Reset cancels the pending callback and re-arms the timer.
//
// Precondition: duration > 0; onFire must not be nil.
func (t *Timer) Reset(duration time.Duration, onFire func()) {
	t.mu.Lock()
	t.stopped = false
	t.timer.Stop()
	t.mu.Unlock()

	next := time.AfterFunc(duration, func() {
		t.mu.Lock()
		s := t.stopped
		t.mu.Unlock()
		if !s {
			onFire()
		}
	})

	t.mu.Lock()
	t.timer = next
	t.mu.Unlock()
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.timer.Stop()
}
