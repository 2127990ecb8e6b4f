package eventlog

import (
	"github.com/fatmeal/commerce/internal/app/service/billing"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(NewChangeLogger),
	fx.Provide(NewEventJournal),
)

// NewEventJournal exposes the service under the webhook processor's journal
// interface for DI.
func NewEventJournal(s *Service) billing.EventJournal { return s }
