package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces rapid events into a single callback invocation.
// Only the last event within the configured interval triggers the callback,
// and callbacks never overlap.
type Debouncer struct {
	interval time.Duration
	callback func(path string)
	logger   *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	lastPath string
	stopped  bool

	running sync.Mutex
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// firing callback with the path of the last event.
func NewDebouncer(interval time.Duration, logger *slog.Logger, callback func(path string)) *Debouncer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Debouncer{
		interval: interval,
		callback: callback,
		logger:   logger,
	}
}

// Trigger records an event for the given path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.lastPath = path

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.fire)
}

// Stop cancels any pending debounced callback and waits for a running one
// to return. Triggers after Stop are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Lock()
	defer d.running.Unlock()
}

func (d *Debouncer) fire() {
	d.running.Lock()
	defer d.running.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("watch callback panicked", slog.Any("error", r))
		}
	}()

	d.mu.Lock()
	p, stopped := d.lastPath, d.stopped
	d.mu.Unlock()

	if stopped {
		return
	}

	d.callback(p)
}
