package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the interface that all domain events must implement.
type Event interface {
	// EventID returns the unique identifier for this event instance.
	EventID() uuid.UUID

	// EventType returns the type name of the event (e.g., "payment.completed").
	EventType() string

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides the common fields of an Event.
// Embed it in domain events.
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Aggregate string    `json:"aggregate_id"`
}

// EventID returns the unique identifier for this event instance.
func (e BaseEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type name of the event.
func (e BaseEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event.
func (e BaseEvent) AggregateID() string {
	return e.Aggregate
}

// NewBaseEvent creates a new BaseEvent.
func NewBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Aggregate: aggregateID,
	}
}
