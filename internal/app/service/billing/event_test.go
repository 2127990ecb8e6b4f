package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEvent_Created(t *testing.T) {
	body := []byte(`{
		"id": "evt-1",
		"type": "subscription.created",
		"created_at": "2025-03-01T10:00:00Z",
		"data": {
			"subscription_id": "sub-ext-1",
			"customer_id": "cus-1",
			"plan_id": "subscription-weekly-6",
			"status": "active",
			"current_period_start": "2025-03-01T00:00:00Z",
			"current_period_end": "2025-04-01T00:00:00Z",
			"customer": {"name": "山田太郎", "email": "taro@example.com"}
		}
	}`)

	ev, err := ParseEvent(body)
	require.NoError(t, err)
	require.Equal(t, "evt-1", ev.ID)
	require.Equal(t, EventTypeCreated, ev.Type)
	require.Equal(t, "sub-ext-1", ev.Subscription.SubscriptionID)
	require.Equal(t, "subscription-weekly-6", ev.Subscription.PlanID)
	require.Equal(t, "taro@example.com", ev.Subscription.Customer.Email)
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	_, err := ParseEvent([]byte(`{not json`))
	require.ErrorIs(t, err, ErrMalformedEvent)
}

func TestParseEvent_MissingType(t *testing.T) {
	_, err := ParseEvent([]byte(`{"id":"evt-1","data":{"subscription_id":"sub-1"}}`))
	require.ErrorIs(t, err, ErrMalformedEvent)
}

func TestParseEvent_UnknownType(t *testing.T) {
	_, err := ParseEvent([]byte(`{"id":"evt-1","type":"invoice.paid","data":{"subscription_id":"sub-1"}}`))
	require.ErrorIs(t, err, ErrUnsupportedEvent)
}

func TestParseEvent_MissingSubscriptionID(t *testing.T) {
	_, err := ParseEvent([]byte(`{"id":"evt-1","type":"subscription.created","data":{}}`))
	require.ErrorIs(t, err, ErrMalformedEvent)
}

func TestIsLifecycleEventType(t *testing.T) {
	for _, typ := range []string{
		"subscription.created",
		"subscription.renewed",
		"subscription.updated",
		"subscription.payment_failed",
		"subscription.deleted",
	} {
		require.True(t, IsLifecycleEventType(typ), typ)
	}
	require.False(t, IsLifecycleEventType("invoice.paid"))
	require.False(t, IsLifecycleEventType(""))
}
