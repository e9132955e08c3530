package client

import (
	"sync"
	"time"
)

// DefaultDebounce is the settle window for search and availability input.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer delays delivery of a value until input settles. Each Set resets
// the timer, so a burst of values inside the window delivers only the last.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given settle window. A zero or
// negative window falls back to DefaultDebounce.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window}
}

// Set schedules fire(value) after the settle window, cancelling any value
// still pending.
func (d *Debouncer) Set(value string, fire func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { fire(value) })
}

// Stop cancels any pending delivery.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
