package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_RESET").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// SessionEvent is something that happened to one session. Data is the JSON
// encoded view the event carries.
type SessionEvent struct {
	Type       string          `json:"type"`
	SessionId  uuid.UUID       `json:"session_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e SessionEvent) EventType() string {
	return e.Type
}

func (e SessionEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewSessionEvent(eventType string, sessionId uuid.UUID, data interface{}) (SessionEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return SessionEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return SessionEvent{
		Type:       eventType,
		SessionId:  sessionId,
		Data:       raw,
		OccurredAt: time.Now(),
	}, nil
}

func Decode(payload []byte) (SessionEvent, error) {
	var e SessionEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return SessionEvent{}, fmt.Errorf("unmarshal session event: %w", err)
	}
	return e, nil
}
