package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.cart.updated", Topic("cart", "updated"))
	assert.Equal(t, "storefront.cart.cleared", Topic("cart", "cleared"))
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	payload := map[string]any{"user_id": "u1", "total_items": 3}

	evt, err := NewEvent("storefront.cart.updated", "u1", "cart", "cart-service", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "storefront.cart.updated", evt.EventType)
	assert.Equal(t, "u1", evt.AggregateID)
	assert.Equal(t, "cart", evt.AggregateType)
	assert.Equal(t, "cart-service", evt.Source)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("t", "a", "cart", "src", make(chan int))
	require.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	evt, err := NewEvent("storefront.cart.cleared", "u2", "cart", "cart-service",
		map[string]string{"user_id": "u2"})
	require.NoError(t, err)
	evt.WithCorrelationID("corr-1")

	raw, err := evt.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, evt.EventID, got.EventID)
	assert.Equal(t, "corr-1", got.CorrelationID)

	var data map[string]string
	require.NoError(t, got.UnmarshalData(&data))
	assert.Equal(t, "u2", data["user_id"])
}
