package subscription

import (
	"github.com/fatmeal/commerce/internal/app/service/billing"

	"go.uber.org/fx"
)

// Module exposes the subscription state machine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewEventHandler),
)

// NewEventHandler exposes the service under the webhook processor's handler
// interface for DI.
func NewEventHandler(s *Service) billing.EventHandler { return s }
