package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameservices/discordgw/internal/discord"
	"github.com/gameservices/discordgw/internal/verify"
)

func testRecord() *verify.Record {
	return &verify.Record{
		ID:               "rec-1",
		DiscordID:        "42",
		Username:         "alice",
		Discriminator:    "0000",
		Email:            "alice@example.com",
		AccessToken:      "tok1",
		RefreshToken:     "ref1",
		Scopes:           []string{"identify", "email", "guilds"},
		Guilds:           []discord.Guild{{ID: "1", Name: "G1"}},
		VerificationCode: "abc123",
		IPAddress:        "203.0.113.9",
		UserAgent:        "test-agent",
		Status:           verify.StatusVerified,
		CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveVerification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	record := testRecord()

	mock.ExpectExec("insert into discord_verifications").
		WithArgs(
			record.ID, record.DiscordID, record.Username, record.Discriminator,
			record.Email, record.Avatar, record.AccessToken, record.RefreshToken,
			[]byte(`["identify","email","guilds"]`),
			[]byte(`[{"id":"1","name":"G1","icon":"","owner":false,"permissions":""}]`),
			record.VerificationCode, record.IPAddress, record.UserAgent,
			record.Status, record.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewWithDB(db)
	id, err := s.SaveVerification(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveVerificationDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("insert into discord_verifications").
		WillReturnError(errors.New("connection refused"))

	s := NewWithDB(db)
	_, err = s.SaveVerification(context.Background(), testRecord())
	assert.Error(t, err)
}
