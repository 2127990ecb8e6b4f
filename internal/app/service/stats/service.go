package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/schedule"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service computes operational counters for the admin overview. Read-only.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type Overview struct {
	ActiveSubscriptions    int64  `json:"active_subscriptions"`
	PastDueSubscriptions   int64  `json:"past_due_subscriptions"`
	CompletedSubscriptions int64  `json:"completed_subscriptions"`
	CanceledSubscriptions  int64  `json:"canceled_subscriptions"`
	PendingDeliveries      int64  `json:"pending_deliveries"`
	DueDeliveries          int64  `json:"due_deliveries"`
	OrdersCreated          int64  `json:"orders_created"`
	Date                   string `json:"date"`
}

// GetOverview returns counters as of the given date.
func (s *Service) GetOverview(ctx context.Context, date time.Time) (*Overview, error) {
	day := schedule.DateOf(date)
	out := &Overview{Date: day.Format("2006-01-02")}

	statusCounts := []struct {
		status types.SubscriptionStatus
		target *int64
	}{
		{types.SubscriptionStatusActive, &out.ActiveSubscriptions},
		{types.SubscriptionStatusPastDue, &out.PastDueSubscriptions},
		{types.SubscriptionStatusCompleted, &out.CompletedSubscriptions},
		{types.SubscriptionStatusCanceled, &out.CanceledSubscriptions},
	}
	for _, sc := range statusCounts {
		if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("status = ?", sc.status).Count(sc.target).Error; err != nil {
			return nil, fmt.Errorf("failed to count subscriptions: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Model(&models.DeliverySchedule{}).
		Where("status = ?", types.DeliveryStatusPending).
		Count(&out.PendingDeliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending deliveries: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.DeliverySchedule{}).
		Where("status = ? AND scheduled_date = ?", types.DeliveryStatusPending, day.Format("2006-01-02")).
		Count(&out.DueDeliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to count due deliveries: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1)).
		Count(&out.OrdersCreated).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	return out, nil
}

type ScanOrdersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanOrdersResponse struct {
	Items []*models.Order `json:"items"`
	Total int64           `json:"total"`
}

// filtersAnd joins a list of filters into one AND expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanOrders implements paginated admin listing of orders with filters.
func (s *Service) ScanOrders(ctx context.Context, req *ScanOrdersRequest) (*ScanOrdersResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Order{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var rows []*models.Order

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ScanOrdersResponse{Items: rows, Total: total}, nil
}
