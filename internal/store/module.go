package store

import (
	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/logger"
	"github.com/gameservices/discordgw/internal/store/pg"
	"github.com/gameservices/discordgw/internal/verify"
	"go.uber.org/fx"
)

// NewStore selects the persistence backend from configuration.
func NewStore(cfg *config.Config) (verify.Store, error) {
	if cfg.Store.DSN == "" {
		logger.Info("No store DSN configured, verification records will be logged only")
		return NewLogStore(), nil
	}

	pgStore, err := pg.Open(cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info("Using Postgres verification store")
	return pgStore, nil
}

// Module provides the verification store dependencies
var Module = fx.Module("store",
	fx.Provide(
		NewStore,
	),
)
