// Package pg implements the verification store on Postgres.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gameservices/discordgw/internal/verify"
)

type Store struct {
	db *sql.DB
}

var _ verify.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

// SaveVerification inserts the record into discord_verifications as a
// single statement. Scopes and guilds are stored as jsonb.
func (s *Store) SaveVerification(ctx context.Context, record *verify.Record) (string, error) {
	scopes, err := json.Marshal(record.Scopes)
	if err != nil {
		return "", fmt.Errorf("marshal scopes: %w", err)
	}
	guilds, err := json.Marshal(record.Guilds)
	if err != nil {
		return "", fmt.Errorf("marshal guilds: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		insert into discord_verifications(
			id, discord_id, username, discriminator, email, avatar,
			access_token, refresh_token, scopes, guilds,
			verification_code, ip_address, user_agent, status, created_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		record.ID, record.DiscordID, record.Username, record.Discriminator,
		record.Email, record.Avatar, record.AccessToken, record.RefreshToken,
		scopes, guilds, record.VerificationCode, record.IPAddress,
		record.UserAgent, record.Status, record.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert verification: %w", err)
	}
	return record.ID, nil
}
