package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventConnected         Event = "connected"
	EventAssignmentCreated Event = "assignment.created"
	EventError             Event = "error"
	EventPong              Event = "pong"
)

// ClassroomEvent is published on a classroom's Redis channel and relayed
// verbatim to every connected member.
type ClassroomEvent struct {
	Event       Event           `json:"event"`
	ClassroomID uuid.UUID       `json:"classroom_id"`
	Data        json.RawMessage `json:"data,omitempty"`
	SentAt      time.Time       `json:"sent_at"`
}

// NewClassroomEvent marshals data into a ClassroomEvent.
func NewClassroomEvent(event Event, classroomID uuid.UUID, data any) (ClassroomEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return ClassroomEvent{}, err
	}
	return ClassroomEvent{
		Event:       event,
		ClassroomID: classroomID,
		Data:        raw,
		SentAt:      time.Now().UTC(),
	}, nil
}

type ConnectedResponse struct {
	Event       Event     `json:"event"`
	ClassroomID uuid.UUID `json:"classroom_id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
