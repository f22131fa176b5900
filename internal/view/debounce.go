package view

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period of the search input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces a burst of values into one call of fn with the
// last value, made once no new value arrived for the delay.  It is safe
// for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(string)
	timer   *time.Timer
	gen     uint64
	pending *string
}

func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Push records v and restarts the quiet period.
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = &v
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire delivers the pending value unless a later Push, Flush or Stop
// superseded generation gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	v := *d.pending
	d.pending = nil
	d.mu.Unlock()
	d.fn(v)
}

// Flush delivers the pending value now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	p := d.pending
	d.pending = nil
	d.mu.Unlock()
	if p != nil {
		d.fn(*p)
	}
}

// Stop drops the pending value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}
