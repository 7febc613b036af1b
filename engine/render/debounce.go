package render

import (
	"sync"
	"time"

	"github.com/npillmayer/nameplate/core/parameters"
)

// Debouncer coalesces bursts of parameter edits. Every call to Push
// restarts a quiet period; when it expires, the parameters of the latest
// push are fired once.
type Debouncer struct {
	quiet   time.Duration
	fire    func(parameters.Render)
	mu      sync.Mutex
	timer   *time.Timer
	pending *parameters.Render
	stopped bool
}

// NewDebouncer creates a debouncer which calls fire after a quiet period.
// A non-positive quiet period fires on every push.
func NewDebouncer(quiet time.Duration, fire func(parameters.Render)) *Debouncer {
	return &Debouncer{quiet: quiet, fire: fire}
}

// Push records params as the latest edit and restarts the quiet period.
func (d *Debouncer) Push(params parameters.Render) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.quiet <= 0 {
		d.mu.Unlock()
		d.fire(params)
		return
	}
	d.pending = &params
	if d.timer == nil {
		d.timer = time.AfterFunc(d.quiet, d.expire)
	} else {
		d.timer.Reset(d.quiet)
	}
	d.mu.Unlock()
}

func (d *Debouncer) expire() {
	d.mu.Lock()
	p := d.pending
	d.pending = nil
	d.mu.Unlock()
	if p != nil {
		tracer().Debugf("quiet period over, firing render")
		d.fire(*p)
	}
}

// Flush fires the pending edit, if any, without waiting for the quiet
// period to end.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.expire()
}

// Stop drops a pending edit. Pushes after Stop are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}
