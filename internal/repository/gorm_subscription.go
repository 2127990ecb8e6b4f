package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/pkg/types"

	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByExternalBillingID(ctx context.Context, externalBillingID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Where("external_billing_id = ?", externalBillingID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) CreateWithSchedules(ctx context.Context, sub *models.Subscription, rows []*models.DeliverySchedule) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create subscription with schedules: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) Save(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *subscriptionRepository) RenewWithSchedules(ctx context.Context, sub *models.Subscription, rows []*models.DeliverySchedule) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sub).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to renew subscription with schedules: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) CancelWithPendingSchedules(ctx context.Context, sub *models.Subscription) (int64, error) {
	var cancelled int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sub).Error; err != nil {
			return err
		}
		res := tx.Model(&models.DeliverySchedule{}).
			Where("subscription_id = ? AND status = ?", sub.ID, types.DeliveryStatusPending).
			Update("status", types.DeliveryStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		cancelled = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to cancel subscription schedules: %w", err)
	}
	return cancelled, nil
}
