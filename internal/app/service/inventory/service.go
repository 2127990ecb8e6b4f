package inventory

import (
	"context"
	"fmt"

	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/internal/repository"
	"github.com/fatmeal/commerce/pkg/tool"

	"go.uber.org/zap"
)

// Service is the inventory gate: it answers whether a delivery can be
// fulfilled today and applies stock reductions. A delivery consumes one unit
// of every active menu item, so the scarcest item gates availability.
type Service struct {
	repo repository.InventoryRepository
	log  *zap.SugaredLogger
}

func NewService(repo repository.InventoryRepository, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, log: log}
}

// HasCapacity reports whether the minimum stock across all active items
// covers requiredUnits. No active items means nothing can ship.
func (s *Service) HasCapacity(ctx context.Context, requiredUnits int) (bool, error) {
	min, hasActive, err := s.repo.MinActiveStock(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read inventory: %w", err)
	}
	if !hasActive {
		return false, nil
	}
	return min >= requiredUnits, nil
}

// Reduce decrements every active item's stock by requiredUnits, floored at
// zero.
func (s *Service) Reduce(ctx context.Context, requiredUnits int) error {
	return s.repo.ReduceActiveStock(ctx, requiredUnits)
}

func (s *Service) List(ctx context.Context) ([]*models.InventoryItem, error) {
	return s.repo.List(ctx)
}

// Restock adds qty units to one item and returns its new state.
func (s *Service) Restock(ctx context.Context, id string, qty int) (*models.InventoryItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive")
	}
	return s.repo.AddStock(ctx, id, qty)
}

// CreateItem registers a new menu item with an initial stock level.
func (s *Service) CreateItem(ctx context.Context, name string, stock int, isActive bool) (*models.InventoryItem, error) {
	if name == "" {
		return nil, fmt.Errorf("item name required")
	}
	item := &models.InventoryItem{
		ID:       tool.GenerateUUIDV7(),
		Name:     name,
		Stock:    stock,
		IsActive: isActive,
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}
