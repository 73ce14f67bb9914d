package verify

import "go.uber.org/fx"

// Module provides the verification pipeline dependencies
var Module = fx.Module("verify",
	fx.Provide(
		NewPipeline,
		NewHTTPHandler,
	),
)
