package storefront

import (
	"sync"
	"time"
)

// Debouncer delays fn until the configured delay has elapsed since the most
// recent Reset. It replaces the implicit re-render side effect the search
// box used to rely on with an explicit start/reset/cancel timer.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Reset (re)starts the countdown. Any pending fire is discarded.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Cancel discards any pending fire.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush cancels the pending timer and runs fn synchronously.
func (d *Debouncer) Flush() {
	d.Cancel()
	d.fn()
}
