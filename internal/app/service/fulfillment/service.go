package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/eventlog"
	"github.com/fatmeal/commerce/internal/app/service/inventory"
	"github.com/fatmeal/commerce/internal/app/service/notifier"
	"github.com/fatmeal/commerce/internal/app/service/schedule"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/internal/repository"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/tool"
	"github.com/fatmeal/commerce/pkg/types"

	"go.uber.org/zap"
)

// Summary is the observable result of one fulfillment run. Partial failures
// never abort the run; they are tallied here instead.
type Summary struct {
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
	OutOfStock int    `json:"out_of_stock"`
	Date       string `json:"date"`
}

// Service turns due, pending delivery rows into shipped orders. It is invoked
// once per day by an external scheduler and is safe to re-run for the same
// date: the pending→shipped flip is a compare-and-swap.
type Service struct {
	schedules repository.DeliveryScheduleRepository
	gate      *inventory.Service
	notif     notifier.Notifier
	changes   eventlog.ChangeLogger
	log       *zap.SugaredLogger
}

func NewService(
	schedules repository.DeliveryScheduleRepository,
	gate *inventory.Service,
	notif notifier.Notifier,
	changes eventlog.ChangeLogger,
	log *zap.SugaredLogger,
) *Service {
	return &Service{schedules: schedules, gate: gate, notif: notif, changes: changes, log: log}
}

// Run processes every delivery row due on the given calendar date. The date
// is supplied by the caller, never read from the wall clock here. Only the
// inability to read the due list fails the run as a whole.
func (s *Service) Run(ctx context.Context, date time.Time) (*Summary, error) {
	day := schedule.DateOf(date)
	rows, err := s.schedules.ListDueOn(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list due deliveries: %w", err)
	}

	sum := &Summary{Date: day.Format("2006-01-02")}
	lg := logctx.FromCtx(ctx, s.log)

	for _, row := range rows {
		sub := row.Subscription
		if sub == nil || sub.Status != types.SubscriptionStatusActive {
			lg.Infow("delivery skipped, subscription not active",
				"delivery_id", row.ID, "delivery_number", row.DeliveryNumber)
			continue
		}

		units := row.Quantity

		ok, err := s.gate.HasCapacity(ctx, units)
		if err != nil {
			sum.Failed++
			lg.Errorw("delivery failed, inventory check error", "delivery_id", row.ID, "err", err)
			continue
		}
		if !ok {
			// Expected condition, not an error: the row stays pending and is
			// retried on the next run once restocked.
			sum.OutOfStock++
			continue
		}

		shipped, err := s.fulfillRow(ctx, row, units, day)
		if err != nil {
			sum.Failed++
			lg.Errorw("delivery failed", "delivery_id", row.ID, "delivery_number", row.DeliveryNumber, "err", err)
			continue
		}
		if shipped {
			sum.Processed++
		}
	}

	lg.Infow("fulfillment run finished",
		"date", sum.Date, "processed", sum.Processed, "failed", sum.Failed, "out_of_stock", sum.OutOfStock)
	return sum, nil
}

// fulfillRow ships a single delivery: order insert, pending→shipped CAS,
// counter advance and inventory decrement happen atomically in that order.
// Returns false without error when another run already shipped the row.
func (s *Service) fulfillRow(ctx context.Context, row *models.DeliverySchedule, units int, day time.Time) (bool, error) {
	sub := row.Subscription

	order := &models.Order{
		ID:       tool.GenerateUUIDV7(),
		Number:   tool.GenerateOrderNumber(day),
		Source:   types.OrderSourceSubscriptionDelivery,
		Customer: sub.ShippingAddress,
		MenuSet:  row.MenuSet,
		Quantity: row.Quantity,
		Amount:   perDeliveryAmount(sub),
		Status:   types.OrderStatusConfirmed,
	}

	shipped, err := s.schedules.ShipDelivery(ctx, row, order, units, day)
	if err != nil {
		return false, err
	}
	if !shipped {
		logctx.FromCtx(ctx, s.log).Infow("delivery already shipped", "delivery_id", row.ID)
		return false, nil
	}

	before := *sub
	sub.CompletedDeliveries = row.DeliveryNumber
	if row.DeliveryNumber >= sub.TotalDeliveries {
		sub.Status = types.SubscriptionStatusCompleted
		sub.NextDeliveryNumber = nil
		s.changes.LogSubscriptionChange(ctx, &before, sub, types.SubscriptionChangeReasonCompleted,
			map[string]any{"order_id": order.ID, "delivery_number": row.DeliveryNumber})
		s.notif.NotifySubscriptionCompleted(ctx, sub)
	} else {
		next := row.DeliveryNumber + 1
		sub.NextDeliveryNumber = &next
		s.changes.LogSubscriptionChange(ctx, &before, sub, types.SubscriptionChangeReasonDelivered,
			map[string]any{"order_id": order.ID, "delivery_number": row.DeliveryNumber})
	}

	logctx.FromCtx(ctx, s.log).Infow("delivery shipped",
		"delivery_id", row.ID, "subscription_id", sub.ID,
		"delivery_number", row.DeliveryNumber, "order_id", order.ID)
	return true, nil
}

func perDeliveryAmount(sub *models.Subscription) int64 {
	if sub.DeliveriesPerMonth <= 0 {
		return sub.MonthlyTotalAmount
	}
	return sub.MonthlyTotalAmount / int64(sub.DeliveriesPerMonth)
}
