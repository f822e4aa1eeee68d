package kafka

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartItemAdded struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

func TestNewEvent(t *testing.T) {
	payload := cartItemAdded{SessionID: "sess-1", ProductID: "prod-a"}

	event, err := NewEvent("cart.item_added", "sess-1", "cart", "storefront", payload)
	require.NoError(t, err)

	assert.Equal(t, "cart.item_added", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, "storefront", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)

	_, err = uuid.Parse(event.EventID)
	assert.NoError(t, err, "event ID should be a valid UUID")
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("cart.item_added", "sess-1", "cart", "storefront", make(chan int))
	require.Error(t, err)
}

func TestEvent_Builders(t *testing.T) {
	event, err := NewEvent("wishlist.item_added", "sess-1", "wishlist", "storefront", nil)
	require.NoError(t, err)

	event.WithCorrelationID("corr-42").WithMetadata("origin", "web")

	assert.Equal(t, "corr-42", event.CorrelationID)
	assert.Equal(t, "web", event.Metadata["origin"])
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	payload := cartItemAdded{SessionID: "sess-1", ProductID: "prod-a"}
	event, err := NewEvent("cart.item_added", "sess-1", "cart", "storefront", payload)
	require.NoError(t, err)
	event.WithCorrelationID("corr-42")

	data, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, event.EventType, decoded.EventType)
	assert.Equal(t, "corr-42", decoded.CorrelationID)

	var got cartItemAdded
	require.NoError(t, decoded.UnmarshalData(&got))
	assert.Equal(t, payload, got)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("not json"))
	require.Error(t, err)
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}
