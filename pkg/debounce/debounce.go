// Package debounce coalesces bursts of events into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs a function once the input has been quiet for the configured window.
// Each Debounce call supersedes the pending one; a superseded function never runs.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	duration time.Duration
}

// New creates a debouncer with the given quiescence window.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Duration returns the quiescence window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Debounce schedules fn after the window, cancelling any pending call.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	// Stop cannot retract a timer that already fired and is waiting on the lock,
	// so each callback checks it is still the latest schedule.
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		current := d.seq == seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate cancels any pending call and runs fn now.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Value is a last-write-wins buffer: Set stores a value and the callback receives
// only the value that was current when the window elapsed. Each stored value is
// delivered at most once.
type Value[T any] struct {
	debouncer *Debouncer
	callback  func(T)

	mu         sync.Mutex
	generation uint64
	hasPending bool
	pending    T
	settled    T
}

// NewValue creates a coalescing buffer that delivers settled values to callback.
func NewValue[T any](delay time.Duration, callback func(T)) *Value[T] {
	return &Value[T]{debouncer: New(delay), callback: callback}
}

// Set records v and restarts the window.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.generation++
	generation := v.generation
	v.pending = value
	v.hasPending = true
	v.mu.Unlock()

	v.debouncer.Debounce(func() { v.deliver(generation) })
}

// Flush delivers the pending value now, skipping the rest of the window.
// It does nothing when the last value has already been delivered.
func (v *Value[T]) Flush() {
	v.mu.Lock()
	generation := v.generation
	v.mu.Unlock()

	v.debouncer.Cancel()
	v.deliver(generation)
}

// Settled returns the last delivered value.
func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Cancel drops the pending value without delivering it.
func (v *Value[T]) Cancel() {
	v.mu.Lock()
	v.hasPending = false
	v.mu.Unlock()
	v.debouncer.Cancel()
}

// deliver hands the pending value to the callback if it is still the one
// stored by the Set that produced generation.
func (v *Value[T]) deliver(generation uint64) {
	v.mu.Lock()
	if !v.hasPending || v.generation != generation {
		v.mu.Unlock()
		return
	}
	value := v.pending
	v.hasPending = false
	v.settled = value
	v.mu.Unlock()

	if v.callback != nil {
		v.callback(value)
	}
}
