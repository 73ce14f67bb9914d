// Package store selects the verification persistence backend: a real
// Postgres store when a DSN is configured, or a log-only stand-in that
// records what would have been written.
package store

import (
	"context"
	"encoding/json"

	"github.com/gameservices/discordgw/internal/logger"
	"github.com/gameservices/discordgw/internal/verify"
	"go.uber.org/zap"
)

// LogStore is the no-op persistence stand-in. It logs the full record at
// info level and reports success so the pipeline behaves identically to
// a healthy store.
type LogStore struct{}

// NewLogStore creates a log-only store.
func NewLogStore() *LogStore {
	return &LogStore{}
}

var _ verify.Store = (*LogStore)(nil)

// SaveVerification logs the record instead of persisting it.
func (s *LogStore) SaveVerification(ctx context.Context, record *verify.Record) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	logger.Info("Verification data (log-only store)",
		zap.String("discord_id", record.DiscordID),
		zap.String("username", record.Username),
		zap.Int("guilds", len(record.Guilds)),
		zap.ByteString("record", data),
	)
	return record.ID, nil
}
