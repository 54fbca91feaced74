package service

import (
	"sync"
	"time"
)

// Debouncer coalesces triggers within a window. The first trigger after a
// quiet period fires immediately; triggers inside the window collapse into
// exactly one call scheduled for the end of the window (trailing edge).
type Debouncer struct {
	window time.Duration
	fn     func()

	mu       sync.Mutex
	lastFire time.Time
	timer    *time.Timer
}

func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		// A follow-up is already scheduled; this trigger collapses into it.
		return
	}

	now := time.Now()
	elapsed := now.Sub(d.lastFire)
	if elapsed >= d.window {
		d.lastFire = now
		go d.fn()
		return
	}

	d.timer = time.AfterFunc(d.window-elapsed, func() {
		d.mu.Lock()
		d.timer = nil
		d.lastFire = time.Now()
		d.mu.Unlock()
		d.fn()
	})
}

// Stop cancels a pending scheduled call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
