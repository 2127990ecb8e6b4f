package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/pkg/types"

	"gorm.io/gorm"
)

// errAlreadyShipped aborts the ShipDelivery transaction when the CAS on the
// row status loses, rolling back the order insert.
var errAlreadyShipped = errors.New("delivery row no longer pending")

type deliveryScheduleRepository struct {
	db *gorm.DB
}

func NewDeliveryScheduleRepository(db *gorm.DB) DeliveryScheduleRepository {
	return &deliveryScheduleRepository{db: db}
}

func (r *deliveryScheduleRepository) HasCycleBatch(ctx context.Context, subscriptionID, cycleRef string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DeliverySchedule{}).
		Where("subscription_id = ? AND billing_cycle_reference = ?", subscriptionID, cycleRef).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *deliveryScheduleRepository) MaxDeliveryNumber(ctx context.Context, subscriptionID string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&models.DeliverySchedule{}).
		Where("subscription_id = ?", subscriptionID).
		Select("MAX(delivery_number)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *deliveryScheduleRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]*models.DeliverySchedule, error) {
	var rows []*models.DeliverySchedule
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("delivery_number asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *deliveryScheduleRepository) ListDueOn(ctx context.Context, date time.Time) ([]*models.DeliverySchedule, error) {
	var rows []*models.DeliverySchedule
	err := r.db.WithContext(ctx).
		Preload("Subscription").
		Where("scheduled_date = ? AND status = ?", date.Format("2006-01-02"), types.DeliveryStatusPending).
		Order("subscription_id asc, delivery_number asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *deliveryScheduleRepository) ShipDelivery(ctx context.Context, row *models.DeliverySchedule, order *models.Order, units int, date time.Time) (bool, error) {
	sub := row.Subscription
	if sub == nil {
		return false, fmt.Errorf("delivery row %s has no subscription loaded", row.ID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Order first so a row can never read as shipped without its order.
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		res := tx.Model(&models.DeliverySchedule{}).
			Where("id = ? AND status = ?", row.ID, types.DeliveryStatusPending).
			Updates(map[string]any{
				"status":         types.DeliveryStatusShipped,
				"delivered_date": date.Format("2006-01-02"),
				"order_id":       order.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyShipped
		}

		updates := map[string]any{
			"completed_deliveries": row.DeliveryNumber,
		}
		if row.DeliveryNumber >= sub.TotalDeliveries {
			updates["next_delivery_number"] = nil
			updates["status"] = types.SubscriptionStatusCompleted
		} else {
			updates["next_delivery_number"] = row.DeliveryNumber + 1
		}
		// completed_deliveries is monotonic; a stale re-run cannot move it back.
		if err := tx.Model(&models.Subscription{}).
			Where("id = ? AND completed_deliveries < ?", sub.ID, row.DeliveryNumber).
			Updates(updates).Error; err != nil {
			return err
		}

		if units > 0 {
			if err := tx.Model(&models.InventoryItem{}).
				Where("is_active = ?", true).
				Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", units)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyShipped) {
			return false, nil
		}
		return false, fmt.Errorf("failed to ship delivery %s: %w", row.ID, err)
	}
	return true, nil
}
