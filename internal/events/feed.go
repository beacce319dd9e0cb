package events

import (
	"sync"
	"time"
)

// Feed stores the last N events in a ring buffer.
type Feed struct {
	mu     sync.Mutex
	size   int
	events []Event
	next   int
	full   bool
	now    func() time.Time
}

// NewFeed returns a feed sized for the provided event count.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 1
	}
	return &Feed{
		size:   size,
		events: make([]Event, size),
		now:    time.Now,
	}
}

// Record stores an event, stamping it with the current time when unset.
func (f *Feed) Record(event Event) {
	if f == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if event.At.IsZero() {
		event.At = f.now()
	}
	f.events[f.next] = event
	f.next++
	if f.next >= f.size {
		f.next = 0
		f.full = true
	}
}

// Snapshot returns the buffered events in chronological order.
func (f *Feed) Snapshot() []Event {
	if f == nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.full {
		out := make([]Event, f.next)
		copy(out, f.events[:f.next])
		return out
	}

	out := make([]Event, f.size)
	copy(out, f.events[f.next:])
	copy(out[f.size-f.next:], f.events[:f.next])
	return out
}

// Latest returns the most recent event.
func (f *Feed) Latest() (Event, bool) {
	snapshot := f.Snapshot()
	if len(snapshot) == 0 {
		return Event{}, false
	}
	return snapshot[len(snapshot)-1], true
}

// Active returns the most recent event if it happened within ttl of now.
// It backs transient confirmation notices.
func (f *Feed) Active(now time.Time, ttl time.Duration) (Event, bool) {
	event, ok := f.Latest()
	if !ok {
		return Event{}, false
	}
	if now.Sub(event.At) > ttl {
		return Event{}, false
	}
	return event, true
}

