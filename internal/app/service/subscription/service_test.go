package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/billing"
	"github.com/fatmeal/commerce/internal/app/service/schedule"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/internal/repository"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore backs both repository interfaces with in-memory state so the state
// machine can be exercised without a database.
type fakeStore struct {
	subs map[string]*models.Subscription // keyed by external billing id
	rows []*models.DeliverySchedule
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: map[string]*models.Subscription{}}
}

func (f *fakeStore) GetByExternalBillingID(_ context.Context, id string) (*models.Subscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeStore) CreateWithSchedules(_ context.Context, sub *models.Subscription, rows []*models.DeliverySchedule) error {
	if _, ok := f.subs[sub.ExternalBillingID]; ok {
		return repository.ErrDuplicate
	}
	cp := *sub
	f.subs[sub.ExternalBillingID] = &cp
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeStore) Save(_ context.Context, sub *models.Subscription) error {
	cp := *sub
	f.subs[sub.ExternalBillingID] = &cp
	return nil
}

func (f *fakeStore) RenewWithSchedules(_ context.Context, sub *models.Subscription, rows []*models.DeliverySchedule) error {
	for _, r := range rows {
		for _, existing := range f.rows {
			if existing.SubscriptionID == r.SubscriptionID && existing.DeliveryNumber == r.DeliveryNumber {
				return repository.ErrDuplicate
			}
		}
	}
	cp := *sub
	f.subs[sub.ExternalBillingID] = &cp
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeStore) CancelWithPendingSchedules(_ context.Context, sub *models.Subscription) (int64, error) {
	cp := *sub
	f.subs[sub.ExternalBillingID] = &cp
	var n int64
	for _, r := range f.rows {
		if r.SubscriptionID == sub.ID && r.Status == types.DeliveryStatusPending {
			r.Status = types.DeliveryStatusCancelled
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) HasCycleBatch(_ context.Context, subID, cycleRef string) (bool, error) {
	for _, r := range f.rows {
		if r.SubscriptionID == subID && r.BillingCycleReference != nil && *r.BillingCycleReference == cycleRef {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) MaxDeliveryNumber(_ context.Context, subID string) (int, error) {
	max := 0
	for _, r := range f.rows {
		if r.SubscriptionID == subID && r.DeliveryNumber > max {
			max = r.DeliveryNumber
		}
	}
	return max, nil
}

func (f *fakeStore) ListBySubscription(_ context.Context, subID string) ([]*models.DeliverySchedule, error) {
	var out []*models.DeliverySchedule
	for _, r := range f.rows {
		if r.SubscriptionID == subID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDueOn(_ context.Context, date time.Time) ([]*models.DeliverySchedule, error) {
	var out []*models.DeliverySchedule
	for _, r := range f.rows {
		if r.Status == types.DeliveryStatusPending && r.ScheduledDate.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ShipDelivery(_ context.Context, row *models.DeliverySchedule, _ *models.Order, _ int, _ time.Time) (bool, error) {
	for _, r := range f.rows {
		if r.ID == row.ID && r.Status == types.DeliveryStatusPending {
			r.Status = types.DeliveryStatusShipped
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifier struct {
	created   int
	payFailed int
	completed int
}

func (n *fakeNotifier) NotifySubscriptionCreated(context.Context, *models.Subscription) { n.created++ }
func (n *fakeNotifier) NotifyPaymentFailed(context.Context, *models.Subscription) { n.payFailed++ }
func (n *fakeNotifier) NotifySubscriptionCompleted(context.Context, *models.Subscription) { n.completed++ }

type fakeChangeLogger struct {
	reasons []types.SubscriptionChangeReason
}

func (c *fakeChangeLogger) LogSubscriptionChange(_ context.Context, _, _ *models.Subscription, reason types.SubscriptionChangeReason, _ map[string]any) {
	c.reasons = append(c.reasons, reason)
}

func newTestService(store *fakeStore) (*Service, *fakeNotifier, *fakeChangeLogger) {
	calc := schedule.NewCalculator(&cfgpkg.Config{Plans: cfgpkg.DefaultPlans()})
	notif := &fakeNotifier{}
	changes := &fakeChangeLogger{}
	svc := NewService(calc, store, store, notif, changes, zap.NewNop().Sugar())
	return svc, notif, changes
}

func createdEvent(extID, planID string) *billing.Event {
	return &billing.Event{
		ID:         "evt-created-" + extID,
		Type:       billing.EventTypeCreated,
		OccurredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Subscription: billing.SubscriptionData{
			SubscriptionID:     extID,
			CustomerID:         "cus-1",
			PlanID:             planID,
			Status:             "active",
			CurrentPeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			CurrentPeriodEnd:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Customer:           models.ShippingAddress{Name: "山田太郎", Email: "taro@example.com"},
		},
	}
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestHandleCreated_MaterializesFirstCycle(t *testing.T) {
	store := newFakeStore()
	svc, notif, changes := newTestService(store)

	err := svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow)
	require.NoError(t, err)

	sub := store.subs["ext-1"]
	require.NotNil(t, sub)
	require.Equal(t, types.SubscriptionStatusActive, sub.Status)
	require.Equal(t, types.PaymentStatusActive, sub.PaymentStatus)
	require.Equal(t, 12, sub.TotalDeliveries)
	require.Equal(t, 1, *sub.NextDeliveryNumber)

	require.Len(t, store.rows, 4)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range store.rows {
		require.Equal(t, i+1, r.DeliveryNumber)
		require.Equal(t, base.AddDate(0, 0, i*7), r.ScheduledDate)
		require.Equal(t, types.DeliveryStatusPending, r.Status)
	}
	require.Equal(t, 1, notif.created)
	require.Equal(t, []types.SubscriptionChangeReason{types.SubscriptionChangeReasonCreated}, changes.reasons)
}

func TestHandleCreated_Redelivery_NoOp(t *testing.T) {
	store := newFakeStore()
	svc, notif, _ := newTestService(store)

	ev := createdEvent("ext-1", "subscription-weekly-6")
	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))
	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))

	require.Len(t, store.subs, 1)
	require.Len(t, store.rows, 4)
	require.Equal(t, 1, notif.created)
}

func TestHandleCreated_UnknownPlan(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	err := svc.HandleEvent(context.Background(), createdEvent("ext-1", "no-such-plan"), testNow)
	require.ErrorIs(t, err, schedule.ErrInvalidPlan)
	require.Empty(t, store.subs)
	require.Empty(t, store.rows)
}

func TestHandleCreated_PreferredStartDateWins(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	ev := createdEvent("ext-1", "subscription-monthly-12")
	ev.Subscription.PreferredStartDate = lo.ToPtr(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))
	require.Len(t, store.rows, 1)
	require.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), store.rows[0].ScheduledDate)
}

func renewedEvent(extID, invoiceID string, cycleStart time.Time) *billing.Event {
	return &billing.Event{
		ID:         "evt-renewed-" + invoiceID,
		Type:       billing.EventTypeRenewed,
		OccurredAt: cycleStart,
		Subscription: billing.SubscriptionData{
			SubscriptionID:     extID,
			InvoiceID:          invoiceID,
			CurrentPeriodStart: cycleStart,
			CurrentPeriodEnd:   cycleStart.AddDate(0, 1, 0),
		},
	}
}

func TestHandleRenewed_AppendsNextCycle(t *testing.T) {
	store := newFakeStore()
	svc, _, changes := newTestService(store)

	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	cycleStart := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.HandleEvent(context.Background(), renewedEvent("ext-1", "inv-2", cycleStart), testNow))

	require.Len(t, store.rows, 8)
	for i := 4; i < 8; i++ {
		require.Equal(t, i+1, store.rows[i].DeliveryNumber)
		require.Equal(t, cycleStart.AddDate(0, 0, (i-4)*7), store.rows[i].ScheduledDate)
		require.Equal(t, "inv-2", *store.rows[i].BillingCycleReference)
	}
	sub := store.subs["ext-1"]
	require.Equal(t, cycleStart, sub.CurrentPeriodStart)
	require.Equal(t, types.PaymentStatusActive, sub.PaymentStatus)
	require.Contains(t, changes.reasons, types.SubscriptionChangeReasonRenewed)
}

func TestHandleRenewed_DuplicateInvoice_NoOp(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	ev := renewedEvent("ext-1", "inv-2", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))
	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))

	require.Len(t, store.rows, 8)
}

func TestHandleRenewed_ClearsPastDue(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))
	sub := store.subs["ext-1"]
	sub.Status = types.SubscriptionStatusPastDue
	sub.PaymentStatus = types.PaymentStatusPastDue

	require.NoError(t, svc.HandleEvent(context.Background(),
		renewedEvent("ext-1", "inv-2", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)), testNow))

	require.Equal(t, types.PaymentStatusActive, store.subs["ext-1"].PaymentStatus)
}

func TestHandleRenewed_UnknownSubscription(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	err := svc.HandleEvent(context.Background(),
		renewedEvent("ext-missing", "inv-1", testNow), testNow)
	require.ErrorIs(t, err, billing.ErrMalformedEvent)
}

func TestHandleRenewed_MissingInvoiceID(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	ev := renewedEvent("ext-1", "", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	err := svc.HandleEvent(context.Background(), ev, testNow)
	require.ErrorIs(t, err, billing.ErrMalformedEvent)
}

func TestHandleRenewed_CanceledSubscription_NoOp(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))
	store.subs["ext-1"].Status = types.SubscriptionStatusCanceled

	require.NoError(t, svc.HandleEvent(context.Background(),
		renewedEvent("ext-1", "inv-2", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)), testNow))
	require.Len(t, store.rows, 4)
}

func TestHandleRenewed_CapsAtTotalDeliveries(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	// Monthly plan: 3 total deliveries, one per cycle.
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-monthly-12"), testNow))
	require.NoError(t, svc.HandleEvent(context.Background(),
		renewedEvent("ext-1", "inv-2", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)), testNow))
	require.NoError(t, svc.HandleEvent(context.Background(),
		renewedEvent("ext-1", "inv-3", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)), testNow))
	require.Len(t, store.rows, 3)

	// A fourth charge past the commitment refreshes the period but adds no rows.
	require.NoError(t, svc.HandleEvent(context.Background(),
		renewedEvent("ext-1", "inv-4", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)), testNow))
	require.Len(t, store.rows, 3)
	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), store.subs["ext-1"].CurrentPeriodStart)
}

func updatedEvent(extID, providerStatus string) *billing.Event {
	return &billing.Event{
		ID:   "evt-updated-1",
		Type: billing.EventTypeUpdated,
		Subscription: billing.SubscriptionData{
			SubscriptionID: extID,
			Status:         providerStatus,
		},
	}
}

func TestHandleUpdated_StatusMapping(t *testing.T) {
	for _, tc := range []struct {
		provider  string
		status    types.SubscriptionStatus
		payStatus types.PaymentStatus
	}{
		{"active", types.SubscriptionStatusActive, types.PaymentStatusActive},
		{"paused", types.SubscriptionStatusPaused, types.PaymentStatusActive},
		{"past_due", types.SubscriptionStatusPastDue, types.PaymentStatusPastDue},
		{"unpaid", types.SubscriptionStatusPastDue, types.PaymentStatusUnpaid},
		{"canceled", types.SubscriptionStatusCanceled, types.PaymentStatusCanceled},
	} {
		store := newFakeStore()
		svc, _, _ := newTestService(store)
		require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

		require.NoError(t, svc.HandleEvent(context.Background(), updatedEvent("ext-1", tc.provider), testNow))
		sub := store.subs["ext-1"]
		require.Equal(t, tc.status, sub.Status, tc.provider)
		require.Equal(t, tc.payStatus, sub.PaymentStatus, tc.provider)
	}
}

func TestHandleUpdated_UnknownProviderStatus(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	err := svc.HandleEvent(context.Background(), updatedEvent("ext-1", "trialing"), testNow)
	require.ErrorIs(t, err, billing.ErrMalformedEvent)
}

func TestHandleUpdated_NeverResurrectsCompleted(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))
	store.subs["ext-1"].Status = types.SubscriptionStatusCompleted

	require.NoError(t, svc.HandleEvent(context.Background(), updatedEvent("ext-1", "active"), testNow))
	require.Equal(t, types.SubscriptionStatusCompleted, store.subs["ext-1"].Status)
}

func TestHandleUpdated_NeverResurrectsCanceled(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	del := &billing.Event{
		ID:           "evt-del-1",
		Type:         billing.EventTypeDeleted,
		Subscription: billing.SubscriptionData{SubscriptionID: "ext-1"},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), del, testNow))

	// A stale provider update arriving after the deletion must not reactivate
	// the subscription: its rows are already cancelled.
	require.NoError(t, svc.HandleEvent(context.Background(), updatedEvent("ext-1", "active"), testNow))

	sub := store.subs["ext-1"]
	require.Equal(t, types.SubscriptionStatusCanceled, sub.Status)
	require.Equal(t, types.PaymentStatusCanceled, sub.PaymentStatus)
	require.NotNil(t, sub.CanceledAt)
	for _, r := range store.rows {
		require.Equal(t, types.DeliveryStatusCancelled, r.Status)
	}
}

func TestHandleUpdated_CanceledSetsTimestamp(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	require.NoError(t, svc.HandleEvent(context.Background(), updatedEvent("ext-1", "canceled"), testNow))
	sub := store.subs["ext-1"]
	require.NotNil(t, sub.CanceledAt)
	require.Equal(t, testNow, *sub.CanceledAt)
}

func TestHandlePaymentFailed(t *testing.T) {
	store := newFakeStore()
	svc, notif, changes := newTestService(store)
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	ev := &billing.Event{
		ID:           "evt-pf-1",
		Type:         billing.EventTypePaymentFailed,
		Subscription: billing.SubscriptionData{SubscriptionID: "ext-1"},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))

	sub := store.subs["ext-1"]
	require.Equal(t, types.SubscriptionStatusPastDue, sub.Status)
	require.Equal(t, types.PaymentStatusPastDue, sub.PaymentStatus)
	require.Equal(t, 1, notif.payFailed)
	require.Contains(t, changes.reasons, types.SubscriptionChangeReasonPaymentFailed)
}

func TestHandleDeleted_CancelsPendingOnly(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	require.NoError(t, svc.HandleEvent(context.Background(), createdEvent("ext-1", "subscription-weekly-6"), testNow))

	// First delivery already shipped.
	store.rows[0].Status = types.DeliveryStatusShipped

	ev := &billing.Event{
		ID:           "evt-del-1",
		Type:         billing.EventTypeDeleted,
		Subscription: billing.SubscriptionData{SubscriptionID: "ext-1"},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), ev, testNow))

	sub := store.subs["ext-1"]
	require.Equal(t, types.SubscriptionStatusCanceled, sub.Status)
	require.Equal(t, types.PaymentStatusCanceled, sub.PaymentStatus)
	require.Nil(t, sub.NextDeliveryNumber)
	require.NotNil(t, sub.CanceledAt)

	require.Equal(t, types.DeliveryStatusShipped, store.rows[0].Status)
	for _, r := range store.rows[1:] {
		require.Equal(t, types.DeliveryStatusCancelled, r.Status)
	}
}

func TestHandleEvent_UnsupportedType(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	ev := &billing.Event{ID: "evt-x", Type: "subscription.unknown", Subscription: billing.SubscriptionData{SubscriptionID: "ext-1"}}
	err := svc.HandleEvent(context.Background(), ev, testNow)
	require.ErrorIs(t, err, billing.ErrUnsupportedEvent)
}
