package events

import "time"

// Event defines the contract for all domain events published to the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "REQUEST_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used by all publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event codes.
const (
	TypeRequestCreated  = "REQUEST_CREATED"
	TypeRequestApproved = "REQUEST_APPROVED"
	TypeRequestRejected = "REQUEST_REJECTED"
	TypeRequestAdvanced = "REQUEST_ADVANCED"
	TypeSyncStarted     = "SYNC_STARTED"
)

// New builds a BaseEvent stamped now.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
