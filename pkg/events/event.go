package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_ENDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event codes published on the bus.
const (
	TypeSessionStarted   = "SESSION_STARTED"
	TypeSessionEnded     = "SESSION_ENDED"
	TypeSegmentIngested  = "SEGMENT_INGESTED"
	TypeNoteGenerated    = "NOTE_GENERATED"
	TypeDocumentIndexed  = "DOCUMENT_INDEXED"
	TypeUserRegistered   = "USER_REGISTERED"
	TypePasswordResetReq = "PASSWORD_RESET_REQUESTED"
)

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
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

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
