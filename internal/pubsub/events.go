// Package pubsub fans typed events out to Bubble Tea models: debug log lines,
// watched file changes and dispatch outcomes each travel on their own broker.
package pubsub

import "time"

// EventType says what happened to the payload.
type EventType string

const (
	CreatedEvent EventType = "created" // a new log line
	UpdatedEvent EventType = "updated" // a watched file changed on disk
	MountedEvent EventType = "mounted" // a handler mounted its view
	FailedEvent  EventType = "failed"  // dispatch fell back to the error view
)

// Event is the tea.Msg a listener delivers.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
