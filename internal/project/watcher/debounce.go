package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces events per path and emits each path once it has been
// quiet for delay.
type debouncer struct {
	delay time.Duration
	emit  func(Event)

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration, emit func(Event)) *debouncer {
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return &debouncer{
		delay:   delay,
		emit:    emit,
		pending: make(map[string]*pendingEvent),
	}
}

// add merges ev into the pending event for its path and restarts the timer.
func (d *debouncer) add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[ev.Path]; ok {
		p.event.Op |= ev.Op
		p.event.Timestamp = ev.Timestamp
		p.timer.Reset(d.delay)
		return
	}
	p := &pendingEvent{event: ev}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(ev.Path) })
	d.pending[ev.Path] = p
}

func (d *debouncer) fire(path string) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if !ok || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	d.mu.Unlock()

	d.emit(p.event)
}

// len returns the number of paths waiting to fire.
func (d *debouncer) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// stop cancels all pending events.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}
