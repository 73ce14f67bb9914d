package interactions

import (
	"crypto/ed25519"

	"github.com/gameservices/discordgw/internal/config"
	"go.uber.org/fx"
)

// Module provides the interaction webhook dependencies
var Module = fx.Module("interactions",
	fx.Provide(
		NewDispatcher,
		NewHandler,
		func(cfg *config.Config) (ed25519.PublicKey, error) {
			return ParsePublicKey(cfg.Discord.PublicKey)
		},
	),
)
