package discord

import "go.uber.org/fx"

// Module provides the Discord client dependencies
var Module = fx.Module("discord",
	fx.Provide(
		NewClient,
	),
)
