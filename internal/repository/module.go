package repository

import "go.uber.org/fx"

// Module exposes the GORM-backed repositories via Fx.
var Module = fx.Options(
	fx.Provide(
		NewSubscriptionRepository,
		NewDeliveryScheduleRepository,
		NewOrderRepository,
		NewInventoryRepository,
	),
)
