package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Fields(t *testing.T) {
	type orderData struct {
		OrderID int64 `json:"order_id"`
		Total   int64 `json:"total"`
	}

	data := orderData{OrderID: 42, Total: 150000}
	event, err := NewEvent("storefront.order.placed", "42", "order", "storefront-bff", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "storefront.order.placed", event.EventType)
	assert.Equal(t, "42", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, "storefront-bff", event.Source)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var roundTripped orderData
	require.NoError(t, json.Unmarshal(event.Data, &roundTripped))
	assert.Equal(t, data, roundTripped)
}

func TestNewEvent_InvalidData(t *testing.T) {
	// Channels are not serializable to JSON.
	_, err := NewEvent("test.event", "agg-1", "test", "test-service", make(chan int))
	require.Error(t, err)
}

func TestEvent_CorrelationAndData(t *testing.T) {
	event, err := NewEvent("storefront.cart.updated", "u1", "cart", "storefront-bff", map[string]int{"item_count": 3})
	require.NoError(t, err)
	event.WithCorrelationID("corr-abc")

	raw, err := event.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "corr-abc")

	var payload map[string]int
	require.NoError(t, event.UnmarshalData(&payload))
	assert.Equal(t, 3, payload["item_count"])
}
