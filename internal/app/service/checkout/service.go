package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/inventory"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/internal/repository"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/tool"
	"github.com/fatmeal/commerce/pkg/types"

	"go.uber.org/zap"
)

var (
	ErrUnknownProduct = errors.New("checkout: unknown product id")
	ErrOutOfStock     = errors.New("checkout: insufficient stock")
)

// Service handles one-time purchases (the trial box). Payment capture happens
// upstream at the billing provider; this service records the order and
// consumes inventory shared with the fulfillment job.
type Service struct {
	cfg    *cfgpkg.Config
	orders repository.OrderRepository
	gate   *inventory.Service
	log    *zap.SugaredLogger
}

func NewService(cfg *cfgpkg.Config, orders repository.OrderRepository, gate *inventory.Service, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, orders: orders, gate: gate, log: log}
}

type CreateOrderRequest struct {
	ProductID string                 `json:"product_id"`
	Quantity  int                    `json:"quantity"`
	Customer  models.ShippingAddress `json:"customer"`
}

// CreateOrder validates the product, gates on inventory, records the order
// and decrements stock. now is the processing time supplied by the caller.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest, now time.Time) (*models.Order, error) {
	product := s.cfg.GetProductByID(req.ProductID)
	if product == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, req.ProductID)
	}

	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	units := product.Quantity * qty

	ok, err := s.gate.HasCapacity(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("failed to check inventory: %w", err)
	}
	if !ok {
		return nil, ErrOutOfStock
	}

	order := &models.Order{
		ID:       tool.GenerateUUIDV7(),
		Number:   tool.GenerateOrderNumber(now),
		Source:   types.OrderSourceCheckout,
		Customer: req.Customer,
		MenuSet:  product.MenuSet,
		Quantity: qty,
		Amount:   product.Price * int64(qty),
		Status:   types.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.gate.Reduce(ctx, units); err != nil {
		// The order is already recorded; stock is reconciled manually.
		logctx.FromCtx(ctx, s.log).Errorw("failed to reduce inventory after checkout",
			"order_id", order.ID, "units", units, "err", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("checkout order created",
		"order_id", order.ID, "product_id", product.ID, "quantity", qty)
	return order, nil
}
