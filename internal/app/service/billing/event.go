package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatmeal/commerce/internal/models"
)

// EventType is the closed set of billing-provider lifecycle notifications
// this service consumes. Anything else on the webhook is ignored, not failed:
// the provider delivers at-least-once and may add types we do not care about.
type EventType string

const (
	EventTypeCreated       EventType = "subscription.created"
	EventTypeRenewed       EventType = "subscription.renewed"
	EventTypeUpdated       EventType = "subscription.updated"
	EventTypePaymentFailed EventType = "subscription.payment_failed"
	EventTypeDeleted       EventType = "subscription.deleted"
)

var (
	ErrMalformedEvent   = errors.New("billing: malformed event payload")
	ErrUnsupportedEvent = errors.New("billing: unsupported event type")
)

// SubscriptionData is the provider's view of one subscription, carried by
// every lifecycle event.
type SubscriptionData struct {
	SubscriptionID     string     `json:"subscription_id"`
	CustomerID         string     `json:"customer_id"`
	PlanID             string     `json:"plan_id"`
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CanceledAt         *time.Time `json:"canceled_at"`
	// InvoiceID identifies the charge behind a Renewed event and keys the
	// delivery batch created for that cycle.
	InvoiceID          string                 `json:"invoice_id"`
	PreferredStartDate *time.Time             `json:"preferred_start_date"`
	Customer           models.ShippingAddress `json:"customer"`
}

// Event is one parsed lifecycle notification.
type Event struct {
	ID           string           `json:"id"`
	Type         EventType        `json:"type"`
	OccurredAt   time.Time        `json:"created_at"`
	Subscription SubscriptionData `json:"data"`
}

// IsLifecycleEventType reports whether the wire type belongs to the closed
// union this service handles.
func IsLifecycleEventType(t string) bool {
	switch EventType(t) {
	case EventTypeCreated, EventTypeRenewed, EventTypeUpdated, EventTypePaymentFailed, EventTypeDeleted:
		return true
	}
	return false
}

// ParseEvent decodes and validates a webhook body into an Event.
// Unknown types yield ErrUnsupportedEvent; structurally invalid payloads
// yield ErrMalformedEvent.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}
	if !IsLifecycleEventType(string(ev.Type)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, ev.Type)
	}
	if ev.Subscription.SubscriptionID == "" {
		return nil, fmt.Errorf("%w: missing data.subscription_id", ErrMalformedEvent)
	}
	return &ev, nil
}
