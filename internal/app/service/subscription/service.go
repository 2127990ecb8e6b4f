package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/billing"
	"github.com/fatmeal/commerce/internal/app/service/eventlog"
	"github.com/fatmeal/commerce/internal/app/service/notifier"
	"github.com/fatmeal/commerce/internal/app/service/schedule"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/internal/repository"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/tool"
	"github.com/fatmeal/commerce/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// initialCycleRef keys the delivery batch created at subscription creation
// when the provider did not attach an invoice id to the Created event.
const initialCycleRef = "initial"

// Service is the subscription state machine. It consumes billing-provider
// lifecycle events and keeps the local Subscription plus its DeliverySchedule
// rows consistent with them. Every handler is safe to invoke more than once
// with the same payload: the provider delivers at-least-once.
type Service struct {
	calc      *schedule.Calculator
	subs      repository.SubscriptionRepository
	schedules repository.DeliveryScheduleRepository
	notif     notifier.Notifier
	changes   eventlog.ChangeLogger
	log       *zap.SugaredLogger
}

func NewService(
	calc *schedule.Calculator,
	subs repository.SubscriptionRepository,
	schedules repository.DeliveryScheduleRepository,
	notif notifier.Notifier,
	changes eventlog.ChangeLogger,
	log *zap.SugaredLogger,
) *Service {
	return &Service{calc: calc, subs: subs, schedules: schedules, notif: notif, changes: changes, log: log}
}

// HandleEvent dispatches one lifecycle event. now is the processing time,
// passed in so handlers stay deterministic under test.
func (s *Service) HandleEvent(ctx context.Context, ev *billing.Event, now time.Time) error {
	switch ev.Type {
	case billing.EventTypeCreated:
		return s.handleCreated(ctx, ev, now)
	case billing.EventTypeRenewed:
		return s.handleRenewed(ctx, ev)
	case billing.EventTypeUpdated:
		return s.handleUpdated(ctx, ev, now)
	case billing.EventTypePaymentFailed:
		return s.handlePaymentFailed(ctx, ev)
	case billing.EventTypeDeleted:
		return s.handleDeleted(ctx, ev, now)
	default:
		return fmt.Errorf("%w: %s", billing.ErrUnsupportedEvent, ev.Type)
	}
}

func (s *Service) handleCreated(ctx context.Context, ev *billing.Event, now time.Time) error {
	data := ev.Subscription

	plan := s.calc.PlanByID(data.PlanID)
	if plan == nil {
		// Fatal for this event: never guess a plan. The operator reconciles.
		return fmt.Errorf("%w: %q on created event %s", schedule.ErrInvalidPlan, data.PlanID, ev.ID)
	}

	if existing, err := s.subs.GetByExternalBillingID(ctx, data.SubscriptionID); err == nil {
		logctx.FromCtx(ctx, s.log).Infow("subscription already exists, created event ignored",
			"external_billing_id", data.SubscriptionID, "subscription_id", existing.ID)
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	startDate := data.CurrentPeriodStart
	if data.PreferredStartDate != nil {
		startDate = *data.PreferredStartDate
	}
	if startDate.IsZero() {
		startDate = now
	}

	entries, err := s.calc.InitialSchedule(plan.ID, startDate)
	if err != nil {
		return err
	}

	sub := &models.Subscription{
		ID:                 tool.GenerateUUIDV7(),
		ExternalBillingID:  data.SubscriptionID,
		ExternalCustomerID: data.CustomerID,
		PlanID:             plan.ID,
		MealsPerDelivery:   plan.MealsPerDelivery,
		DeliveriesPerMonth: plan.DeliveriesPerMonth,
		MonthlyTotalAmount: plan.MonthlyTotalAmount,
		Status:             types.SubscriptionStatusActive,
		PaymentStatus:      types.PaymentStatusActive,
		TotalDeliveries:    plan.TotalDeliveries(),
		NextDeliveryNumber: lo.ToPtr(1),
		CurrentPeriodStart: data.CurrentPeriodStart,
		CurrentPeriodEnd:   data.CurrentPeriodEnd,
		StartedAt:          now,
		ShippingAddress:    data.Customer,
	}

	cycleRef := data.InvoiceID
	if cycleRef == "" {
		cycleRef = initialCycleRef
	}
	rows := s.buildRows(sub, entries, 0, cycleRef)

	if err := s.subs.CreateWithSchedules(ctx, sub, rows); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race against a concurrent delivery of the same event.
			logctx.FromCtx(ctx, s.log).Infow("concurrent created event, insert skipped",
				"external_billing_id", data.SubscriptionID)
			return nil
		}
		return err
	}

	s.changes.LogSubscriptionChange(ctx, nil, sub, types.SubscriptionChangeReasonCreated, map[string]any{"event_id": ev.ID})
	s.notif.NotifySubscriptionCreated(ctx, sub)

	logctx.FromCtx(ctx, s.log).Infow("subscription created",
		"subscription_id", sub.ID, "external_billing_id", sub.ExternalBillingID,
		"plan_id", sub.PlanID, "deliveries", len(rows))
	return nil
}

func (s *Service) handleRenewed(ctx context.Context, ev *billing.Event) error {
	data := ev.Subscription

	sub, err := s.subs.GetByExternalBillingID(ctx, data.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: renewal for unknown subscription %s", billing.ErrMalformedEvent, data.SubscriptionID)
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}
	if sub.Status == types.SubscriptionStatusCanceled {
		logctx.FromCtx(ctx, s.log).Infow("renewal ignored for canceled subscription", "subscription_id", sub.ID)
		return nil
	}
	if data.InvoiceID == "" {
		return fmt.Errorf("%w: renewed event %s without invoice_id", billing.ErrMalformedEvent, ev.ID)
	}

	exists, err := s.schedules.HasCycleBatch(ctx, sub.ID, data.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to check cycle batch: %w", err)
	}
	if exists {
		logctx.FromCtx(ctx, s.log).Infow("renewal already processed",
			"subscription_id", sub.ID, "invoice_id", data.InvoiceID)
		return nil
	}

	maxNumber, err := s.schedules.MaxDeliveryNumber(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to read delivery numbers: %w", err)
	}

	var rows []*models.DeliverySchedule
	if maxNumber < sub.TotalDeliveries {
		cycleStart := data.CurrentPeriodStart
		if cycleStart.IsZero() {
			cycleStart = ev.OccurredAt
		}
		entries, err := s.calc.MonthlyRenewalSchedule(sub.PlanID, cycleStart)
		if err != nil {
			return err
		}
		rows = s.buildRows(sub, entries, maxNumber, data.InvoiceID)
	}

	before := *sub
	if !data.CurrentPeriodStart.IsZero() {
		sub.CurrentPeriodStart = data.CurrentPeriodStart
	}
	if !data.CurrentPeriodEnd.IsZero() {
		sub.CurrentPeriodEnd = data.CurrentPeriodEnd
	}
	sub.PaymentStatus = types.PaymentStatusActive

	if err := s.subs.RenewWithSchedules(ctx, sub, rows); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logctx.FromCtx(ctx, s.log).Infow("concurrent renewal, batch insert skipped",
				"subscription_id", sub.ID, "invoice_id", data.InvoiceID)
			return nil
		}
		return err
	}

	s.changes.LogSubscriptionChange(ctx, &before, sub, types.SubscriptionChangeReasonRenewed,
		map[string]any{"event_id": ev.ID, "invoice_id": data.InvoiceID, "new_deliveries": len(rows)})

	logctx.FromCtx(ctx, s.log).Infow("subscription renewed",
		"subscription_id", sub.ID, "invoice_id", data.InvoiceID, "new_deliveries", len(rows))
	return nil
}

func (s *Service) handleUpdated(ctx context.Context, ev *billing.Event, now time.Time) error {
	data := ev.Subscription

	sub, err := s.subs.GetByExternalBillingID(ctx, data.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: update for unknown subscription %s", billing.ErrMalformedEvent, data.SubscriptionID)
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	status, payStatus, err := mapProviderStatus(data.Status)
	if err != nil {
		return err
	}

	// Completion and cancellation are terminal locally; a late or re-delivered
	// provider update must not resurrect either once the delivery rows are
	// already shipped or cancelled.
	if sub.Status == types.SubscriptionStatusCompleted || sub.Status == types.SubscriptionStatusCanceled {
		logctx.FromCtx(ctx, s.log).Infow("update ignored for terminal subscription",
			"subscription_id", sub.ID, "status", sub.Status, "provider_status", data.Status)
		return nil
	}

	before := *sub
	sub.Status = status
	sub.PaymentStatus = payStatus
	if status == types.SubscriptionStatusCanceled && sub.CanceledAt == nil {
		if data.CanceledAt != nil {
			sub.CanceledAt = data.CanceledAt
		} else {
			sub.CanceledAt = lo.ToPtr(now)
		}
	}

	if err := s.subs.Save(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.changes.LogSubscriptionChange(ctx, &before, sub, types.SubscriptionChangeReasonUpdated,
		map[string]any{"event_id": ev.ID, "provider_status": data.Status})

	logctx.FromCtx(ctx, s.log).Infow("subscription updated",
		"subscription_id", sub.ID, "status", sub.Status, "payment_status", sub.PaymentStatus)
	return nil
}

func (s *Service) handlePaymentFailed(ctx context.Context, ev *billing.Event) error {
	data := ev.Subscription

	sub, err := s.subs.GetByExternalBillingID(ctx, data.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: payment failure for unknown subscription %s", billing.ErrMalformedEvent, data.SubscriptionID)
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	before := *sub
	sub.Status = types.SubscriptionStatusPastDue
	sub.PaymentStatus = types.PaymentStatusPastDue

	if err := s.subs.Save(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.changes.LogSubscriptionChange(ctx, &before, sub, types.SubscriptionChangeReasonPaymentFailed,
		map[string]any{"event_id": ev.ID})
	s.notif.NotifyPaymentFailed(ctx, sub)

	logctx.FromCtx(ctx, s.log).Infow("subscription past due", "subscription_id", sub.ID)
	return nil
}

func (s *Service) handleDeleted(ctx context.Context, ev *billing.Event, now time.Time) error {
	data := ev.Subscription

	sub, err := s.subs.GetByExternalBillingID(ctx, data.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: deletion for unknown subscription %s", billing.ErrMalformedEvent, data.SubscriptionID)
		}
		return fmt.Errorf("failed to look up subscription: %w", err)
	}

	before := *sub
	sub.Status = types.SubscriptionStatusCanceled
	sub.PaymentStatus = types.PaymentStatusCanceled
	if sub.CanceledAt == nil {
		if data.CanceledAt != nil {
			sub.CanceledAt = data.CanceledAt
		} else {
			sub.CanceledAt = lo.ToPtr(now)
		}
	}
	sub.NextDeliveryNumber = nil

	cancelled, err := s.subs.CancelWithPendingSchedules(ctx, sub)
	if err != nil {
		return err
	}

	s.changes.LogSubscriptionChange(ctx, &before, sub, types.SubscriptionChangeReasonDeleted,
		map[string]any{"event_id": ev.ID, "cancelled_deliveries": cancelled})

	logctx.FromCtx(ctx, s.log).Infow("subscription canceled",
		"subscription_id", sub.ID, "cancelled_deliveries", cancelled)
	return nil
}

// buildRows materializes schedule entries as DeliverySchedule rows, offsetting
// delivery numbers to continue the subscription's sequence and capping at the
// contractual total.
func (s *Service) buildRows(sub *models.Subscription, entries []schedule.ScheduledDelivery, offset int, cycleRef string) []*models.DeliverySchedule {
	rows := make([]*models.DeliverySchedule, 0, len(entries))
	for _, e := range entries {
		number := offset + e.DeliveryNumber
		if number > sub.TotalDeliveries {
			break
		}
		rows = append(rows, &models.DeliverySchedule{
			ID:                    tool.GenerateUUIDV7(),
			SubscriptionID:        sub.ID,
			DeliveryNumber:        number,
			ScheduledDate:         e.ScheduledDate,
			MenuSet:               e.MenuSet,
			MealsPerDelivery:      e.MealsPerDelivery,
			Quantity:              e.Quantity,
			Status:                types.DeliveryStatusPending,
			BillingCycleReference: lo.ToPtr(cycleRef),
		})
	}
	return rows
}

// mapProviderStatus translates the provider's subscription status into the
// local status pair.
func mapProviderStatus(providerStatus string) (types.SubscriptionStatus, types.PaymentStatus, error) {
	switch providerStatus {
	case "active":
		return types.SubscriptionStatusActive, types.PaymentStatusActive, nil
	case "paused":
		return types.SubscriptionStatusPaused, types.PaymentStatusActive, nil
	case "past_due":
		return types.SubscriptionStatusPastDue, types.PaymentStatusPastDue, nil
	case "unpaid":
		return types.SubscriptionStatusPastDue, types.PaymentStatusUnpaid, nil
	case "canceled":
		return types.SubscriptionStatusCanceled, types.PaymentStatusCanceled, nil
	default:
		return "", "", fmt.Errorf("%w: unknown provider status %q", billing.ErrMalformedEvent, providerStatus)
	}
}
