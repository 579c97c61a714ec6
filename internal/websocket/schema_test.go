package websocket

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassroomEvent(t *testing.T) {
	id := uuid.New()
	ev, err := NewClassroomEvent(EventAssignmentCreated, id, map[string]string{"title": "Lab report"})
	require.NoError(t, err)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded struct {
		Event       string            `json:"event"`
		ClassroomID string            `json:"classroom_id"`
		Data        map[string]string `json:"data"`
		SentAt      string            `json:"sent_at"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "assignment.created", decoded.Event)
	assert.Equal(t, id.String(), decoded.ClassroomID)
	assert.Equal(t, "Lab report", decoded.Data["title"])
	assert.NotEmpty(t, decoded.SentAt)
}

func TestNewClassroomEventRejectsUnencodableData(t *testing.T) {
	_, err := NewClassroomEvent(EventAssignmentCreated, uuid.New(), make(chan int))
	assert.Error(t, err)
}
