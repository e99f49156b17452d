package progress

import (
	"sync"
)

// Stream is a Sink backed by a channel, for a single consumer. Emit blocks until
// the consumer receives, and the channel is closed right after the terminal
// event.
type Stream struct {
	mu       sync.Mutex
	ch       chan Event
	launchID string
	closed   bool
}

// NewStream creates a stream for launchID with the given channel buffer.
func NewStream(launchID string, buffer int) *Stream {
	return &Stream{ch: make(chan Event, buffer), launchID: launchID}
}

// Events returns the receive side of the stream.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Emit delivers e. Events after the terminal one are ignored.
func (s *Stream) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if e.LaunchID == "" {
		e.LaunchID = s.launchID
	}
	s.ch <- e
	if e.Terminal() {
		s.closed = true
		close(s.ch)
	}
}

// Close ends the stream with a failure if no terminal event was sent.
func (s *Stream) Close() {
	s.Emit(Failure("launch ended without a result"))
}
