package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/pkg/logctx"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// EventHandler applies one parsed lifecycle event to local state.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev *Event, now time.Time) error
}

// EventJournal records webhook deliveries and their outcomes.
type EventJournal interface {
	SaveBillingEvent(ctx context.Context, entry *models.BillingEventLog)
}

// Processor is the webhook-facing side of event handling: it records every
// delivery, hands the parsed event to the state machine and records the
// outcome. Transport concerns (auth, HTTP codes) stay in the handler.
type Processor struct {
	handler EventHandler
	events  EventJournal
	Logger  *zap.SugaredLogger
}

func NewProcessor(handler EventHandler, events EventJournal, log *zap.SugaredLogger) *Processor {
	return &Processor{handler: handler, events: events, Logger: log}
}

// Process parses and handles one webhook body. now is the processing time.
func (p *Processor) Process(ctx context.Context, body []byte, traceID string, now time.Time) (resErr error) {
	ev, parseErr := ParseEvent(body)

	var eventID, eventType string
	var externalBillingID *string
	if ev != nil {
		eventID = ev.ID
		eventType = string(ev.Type)
		externalBillingID = lo.ToPtr(ev.Subscription.SubscriptionID)
	}

	// Save 'received' log
	p.events.SaveBillingEvent(ctx, &models.BillingEventLog{
		EventID:           eventID,
		EventType:         eventType,
		ExternalBillingID: externalBillingID,
		TraceID:           traceID,
		EventTime:         now,
		Data:              datatypes.JSON(body),
		Status:            models.BillingEventLogStatusReceived,
	})

	defer func() {
		resMap := map[string]any{}
		status := models.BillingEventLogStatusHandled
		if resErr != nil {
			resMap["error"] = resErr.Error()
			status = models.BillingEventLogStatusHandleFailed
		}
		resBytes, _ := json.Marshal(resMap)
		p.events.SaveBillingEvent(ctx, &models.BillingEventLog{
			EventID:           eventID,
			EventType:         eventType,
			ExternalBillingID: externalBillingID,
			TraceID:           traceID,
			EventTime:         now,
			Data:              datatypes.JSON(body),
			Result:            func() *datatypes.JSON { j := datatypes.JSON(resBytes); return &j }(),
			Status:            status,
		})
	}()

	if parseErr != nil {
		resErr = parseErr
		return resErr
	}

	logctx.FromCtx(ctx, p.Logger).Infow("billing event received",
		"event_id", ev.ID, "event_type", ev.Type,
		"external_billing_id", ev.Subscription.SubscriptionID)

	resErr = p.handler.HandleEvent(ctx, ev, now)
	return resErr
}
