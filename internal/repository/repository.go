package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fatmeal/commerce/internal/models"
)

var (
	ErrNotFound  = errors.New("repository: record not found")
	ErrDuplicate = errors.New("repository: duplicate key")
)

// SubscriptionRepository persists subscriptions. Multi-row operations
// (creation with its first schedule batch, renewal, cancellation) are atomic.
type SubscriptionRepository interface {
	GetByExternalBillingID(ctx context.Context, externalBillingID string) (*models.Subscription, error)
	// CreateWithSchedules inserts the subscription and its initial delivery
	// batch in one transaction. Returns ErrDuplicate when a subscription for
	// the same external billing id already exists.
	CreateWithSchedules(ctx context.Context, sub *models.Subscription, rows []*models.DeliverySchedule) error
	Save(ctx context.Context, sub *models.Subscription) error
	// RenewWithSchedules saves the refreshed subscription and inserts the new
	// cycle's delivery batch in one transaction.
	RenewWithSchedules(ctx context.Context, sub *models.Subscription, rows []*models.DeliverySchedule) error
	// CancelWithPendingSchedules saves the canceled subscription and flips all
	// of its still-pending delivery rows to cancelled. Shipped rows are left
	// untouched. Returns the number of cancelled rows.
	CancelWithPendingSchedules(ctx context.Context, sub *models.Subscription) (int64, error)
}

// DeliveryScheduleRepository reads and mutates delivery rows.
type DeliveryScheduleRepository interface {
	HasCycleBatch(ctx context.Context, subscriptionID, cycleRef string) (bool, error)
	MaxDeliveryNumber(ctx context.Context, subscriptionID string) (int, error)
	ListBySubscription(ctx context.Context, subscriptionID string) ([]*models.DeliverySchedule, error)
	// ListDueOn returns pending rows scheduled on the given calendar date with
	// their subscription preloaded.
	ListDueOn(ctx context.Context, date time.Time) ([]*models.DeliverySchedule, error)
	// ShipDelivery performs the per-row fulfillment unit of work atomically and
	// in order: insert the order, flip the row pending→shipped (compare-and-swap
	// on status), advance the subscription's delivery counters, decrement
	// active inventory by units. Returns false when the row was no longer
	// pending; in that case nothing is persisted.
	ShipDelivery(ctx context.Context, row *models.DeliverySchedule, order *models.Order, units int, date time.Time) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
}

type InventoryRepository interface {
	// MinActiveStock returns the minimum stock across active items. hasActive
	// is false when no item is active.
	MinActiveStock(ctx context.Context) (min int, hasActive bool, err error)
	// ReduceActiveStock decrements every active item's stock by units, floored
	// at zero.
	ReduceActiveStock(ctx context.Context, units int) error
	AddStock(ctx context.Context, id string, delta int) (*models.InventoryItem, error)
	List(ctx context.Context) ([]*models.InventoryItem, error)
	Save(ctx context.Context, item *models.InventoryItem) error
}
