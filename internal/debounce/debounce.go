// Package debounce coalesces bursts of triggers into one delayed call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer owns at most one pending call. Scheduling a new call cancels the
// previous one, so only the last call of a burst runs (trailing edge).
type Debouncer struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64 // Bumped on every Schedule/CancelPending; stale timers check it before running.
}

// New creates an idle Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule runs fn after delay unless another Schedule or CancelPending happens first.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if gen != d.generation {
			// Superseded after the timer already fired.
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// CancelPending drops the pending call, if any, and reports whether one was dropped.
func (d *Debouncer) CancelPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	had := d.timer != nil
	d.stopLocked()
	d.generation++
	return had
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
