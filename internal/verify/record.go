package verify

import (
	"time"

	"github.com/gameservices/discordgw/internal/discord"
	"github.com/google/uuid"
)

// StatusVerified is the only status a record can carry today; a record
// is only built after identity has been established.
const StatusVerified = "verified"

// Record is the unit handed to the persistence store once a user has
// completed verification. It is immutable after construction.
type Record struct {
	ID               string          `json:"id"`
	DiscordID        string          `json:"discordId"`
	Username         string          `json:"username"`
	Discriminator    string          `json:"discriminator"`
	Email            string          `json:"email"`
	Avatar           string          `json:"avatar"`
	AccessToken      string          `json:"accessToken"`
	RefreshToken     string          `json:"refreshToken"`
	Scopes           []string        `json:"scopes"`
	Guilds           []discord.Guild `json:"guilds"`
	VerificationCode string          `json:"verificationCode"`
	IPAddress        string          `json:"ipAddress"`
	UserAgent        string          `json:"userAgent"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// NewRecord assembles a verification record from the pipeline's outputs.
func NewRecord(user *discord.User, token *discord.Token, guilds []discord.Guild, req *CallbackRequest) *Record {
	discriminator := user.Discriminator
	if discriminator == "" {
		discriminator = "0000"
	}

	return &Record{
		ID:               uuid.NewString(),
		DiscordID:        user.ID,
		Username:         user.Username,
		Discriminator:    discriminator,
		Email:            user.Email,
		Avatar:           user.Avatar,
		AccessToken:      token.AccessToken,
		RefreshToken:     token.RefreshToken,
		Scopes:           token.Scopes,
		Guilds:           guilds,
		VerificationCode: req.Code,
		IPAddress:        req.SourceIP,
		UserAgent:        req.UserAgent,
		Status:           StatusVerified,
		CreatedAt:        time.Now().UTC(),
	}
}

// User reconstructs the profile view used by the notifier.
func (r *Record) User() *discord.User {
	return &discord.User{
		ID:            r.DiscordID,
		Username:      r.Username,
		Discriminator: r.Discriminator,
		Email:         r.Email,
		Avatar:        r.Avatar,
	}
}
