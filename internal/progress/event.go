// Package progress carries the event stream of a launch from the pipeline to
// whoever is watching it.
package progress

import (
	"brewboxes/pkg/desktop"
)

// EventType tags a progress event.
type EventType string

const (
	TypeStatus   EventType = "status"
	TypeProgress EventType = "progress"
	TypeComplete EventType = "complete"
	TypeError    EventType = "error"
)

// Event is one unit of a launch stream. URL and ContainerID are only set on
// complete events.
type Event struct {
	Type        EventType `json:"type"`
	Message     string    `json:"message"`
	LaunchID    string    `json:"launch_id,omitempty"`
	Success     *bool     `json:"success,omitempty"`
	URL         string    `json:"url,omitempty"`
	ContainerID string    `json:"container_id,omitempty"`
}

// Terminal reports whether e ends a stream.
func (e Event) Terminal() bool {
	return e.Type == TypeComplete || e.Type == TypeError
}

// Status announces a pipeline stage.
func Status(message string) Event {
	return Event{Type: TypeStatus, Message: message}
}

// Progress forwards one line of engine output.
func Progress(line string) Event {
	return Event{Type: TypeProgress, Message: line}
}

// Complete ends a stream with the launched container.
func Complete(record desktop.ContainerRecord) Event {
	success := true
	return Event{
		Type:        TypeComplete,
		Message:     "Container launched successfully!",
		Success:     &success,
		URL:         record.URL,
		ContainerID: record.ID,
	}
}

// Failure ends a stream with an error message.
func Failure(message string) Event {
	success := false
	if message == "" {
		message = "An unknown error occurred during container launch."
	}
	return Event{Type: TypeError, Message: message, Success: &success}
}
