package repository

import (
	"context"
	"errors"

	"github.com/fatmeal/commerce/internal/models"

	"gorm.io/gorm"
)

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) MinActiveStock(ctx context.Context) (int, bool, error) {
	var min *int
	err := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("is_active = ?", true).
		Select("MIN(stock)").Scan(&min).Error
	if err != nil {
		return 0, false, err
	}
	if min == nil {
		return 0, false, nil
	}
	return *min, true, nil
}

func (r *inventoryRepository) ReduceActiveStock(ctx context.Context, units int) error {
	if units <= 0 {
		return nil
	}
	// Relative decrement with a zero floor; absolute read-then-write would
	// race with concurrent checkout reductions.
	return r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("is_active = ?", true).
		Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", units)).Error
}

func (r *inventoryRepository) AddStock(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	err := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta)).Error
	if err != nil {
		return nil, err
	}
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) Save(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
