package eventlog

import (
	"context"

	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/tool"
	"github.com/fatmeal/commerce/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChangeLogger records subscription state transitions for troubleshooting.
// Implementations must never block or fail the calling transition.
type ChangeLogger interface {
	LogSubscriptionChange(ctx context.Context, before, after *models.Subscription, reason types.SubscriptionChangeReason, extra map[string]any)
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// NewChangeLogger exposes the service under its audit interface for DI.
func NewChangeLogger(s *Service) ChangeLogger { return s }

// SaveBillingEvent asynchronously persists a billing event log. Nil input is ignored.
func (s *Service) SaveBillingEvent(ctx context.Context, entry *models.BillingEventLog) {
	go func() {
		if entry == nil {
			return
		}
		if entry.ID == "" {
			entry.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save billing event log: %v", err)
		}
	}()
}

// LogSubscriptionChange asynchronously writes a before/after audit row.
func (s *Service) LogSubscriptionChange(ctx context.Context, before, after *models.Subscription, reason types.SubscriptionChangeReason, extra map[string]any) {
	go func() {
		if after == nil {
			return
		}
		if extra == nil {
			extra = map[string]any{}
		}
		entry := &models.SubscriptionLog{
			ID:             tool.GenerateUUIDV7(),
			SubscriptionID: after.ID,
			Reason:         reason,
			Before:         datatypes.NewJSONType(before),
			After:          datatypes.NewJSONType(after),
			Extra:          datatypes.JSONMap(extra),
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()
}
