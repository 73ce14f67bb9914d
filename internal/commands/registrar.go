package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/logger"
	"go.uber.org/zap"
)

const defaultAPIBaseURL = "https://discord.com/api/v10"

// Registrar registers guild slash commands using the bot token.
type Registrar struct {
	clientID   string
	botToken   string
	apiBaseURL string
	httpClient *http.Client
}

// NewRegistrar creates a registrar from the application credentials.
func NewRegistrar(cfg *config.DiscordConfig) *Registrar {
	return &Registrar{
		clientID:   cfg.ClientID,
		botToken:   cfg.BotToken,
		apiBaseURL: defaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register PUTs the catalog to the guild's command endpoint, replacing
// whatever set was registered before. Returns the commands as Discord
// recorded them.
func (r *Registrar) Register(ctx context.Context, guildID string, catalog []Command) ([]Command, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	if r.botToken == "" {
		return nil, fmt.Errorf("discord.bot_token is required to register commands")
	}

	payload, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("marshal commands: %w", err)
	}

	url := fmt.Sprintf("%s/applications/%s/guilds/%s/commands", r.apiBaseURL, r.clientID, guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+r.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to register commands (status %d): %s", resp.StatusCode, body)
	}

	var registered []Command
	if err := json.Unmarshal(body, &registered); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	logger.Info("Commands registered",
		zap.String("guild_id", guildID),
		zap.Int("count", len(registered)),
	)
	return registered, nil
}
