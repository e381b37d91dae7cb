package watch

import (
	"log"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period waited after the last qualifying
// event before the callback fires.
const DefaultDebounce = 2 * time.Second

// Debouncer coalesces bursts of triggers into a single callback
// invocation: each Trigger cancels any armed timer and re-arms it, so
// the callback fires once the burst has been quiet for the configured
// delay.
//
// The timer handle is owned by the Debouncer and guarded by a mutex;
// Trigger and the firing timer goroutine may race otherwise. At most
// one timer is armed at a time.
type Debouncer struct {
	delay    time.Duration
	callback func()
	logger   *log.Logger

	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	inflight sync.WaitGroup
}

// NewDebouncer creates a debouncer that invokes callback once no
// further Trigger calls arrive within delay. A nil logger falls back
// to the default logger.
func NewDebouncer(delay time.Duration, callback func(), logger *log.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Debouncer{
		delay:    delay,
		callback: callback,
		logger:   logger,
	}
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger (re)arms the delayed callback. If a timer is already armed
// it is canceled first, so only the last trigger of a burst counts.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil && d.timer.Stop() {
		// Canceled before firing; release its inflight slot.
		d.inflight.Done()
	}

	d.inflight.Add(1)
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// fire runs the callback on the timer goroutine.
// Panics are recovered and logged so a failing callback never kills
// the event-delivery path or the process.
func (d *Debouncer) fire() {
	defer d.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("debounce callback panic: %v", r)
		}
	}()

	d.callback()
}

// Stop cancels any armed timer and waits for an in-flight callback to
// finish. After Stop returns, no further callbacks will fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}
	d.timer = nil
	d.mu.Unlock()

	d.inflight.Wait()
}
