package nats

import (
	"encoding/json"
	"testing"
	"time"

	"wms-ops-agent/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "ops.ITEM_MOVED", Subject(events.ItemMoved))
}

func TestDecodeEvent_RoundTripsEnvelope(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := json.Marshal(envelope{
		Type:       events.TaskCreated,
		OccurredAt: at,
		Data:       map[string]interface{}{"task_number": "TSK-00001"},
	})
	require.NoError(t, err)

	event, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, events.TaskCreated, event.EventType())
	assert.True(t, at.Equal(event.Timestamp()))
	assert.Equal(t, "TSK-00001", event.Payload()["task_number"])
}

func TestDecodeEvent_Garbage(t *testing.T) {
	_, err := DecodeEvent([]byte("not json"))
	assert.Error(t, err)
}
