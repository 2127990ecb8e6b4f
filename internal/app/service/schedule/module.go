package schedule

import "go.uber.org/fx"

// Module exposes the schedule calculator via Fx.
var Module = fx.Options(
	fx.Provide(NewCalculator),
)
