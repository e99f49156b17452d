package progress

import (
	"sync"
)

// Sink receives the events of a launch.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Guard wraps a sink so it sees events stamped with a launch ID and at most one
// terminal event, after which everything is dropped.
type Guard struct {
	mu       sync.Mutex
	sink     Sink
	launchID string
	done     bool
}

// NewGuard wraps sink for the launch launchID. A nil sink discards.
func NewGuard(launchID string, sink Sink) *Guard {
	if sink == nil {
		sink = Discard
	}
	return &Guard{sink: sink, launchID: launchID}
}

// Emit forwards e unless a terminal event was already forwarded.
func (g *Guard) Emit(e Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		return
	}
	if e.LaunchID == "" {
		e.LaunchID = g.launchID
	}
	g.done = e.Terminal()
	g.sink.Emit(e)
}

// Done reports whether the terminal event was emitted.
func (g *Guard) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// LaunchID returns the launch the guard stamps onto events.
func (g *Guard) LaunchID() string {
	return g.launchID
}

// Collector records events in memory.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (c *Collector) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// Last returns the most recent event.
func (c *Collector) Last() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return Event{}, false
	}
	return c.events[len(c.events)-1], true
}
