package notify

import "go.uber.org/fx"

// Module provides the notifier dependencies
var Module = fx.Module("notify",
	fx.Provide(
		NewNotifier,
	),
)
