package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const defaultAPIBaseURL = "https://discord.com/api"

// Client talks to the Discord OAuth2 and user endpoints. It performs the
// authorization-code exchange and the bearer-authenticated profile and
// guild fetches that feed the verification pipeline.
type Client struct {
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	apiBaseURL   string
}

// NewClient creates a Discord client from the application credentials.
func NewClient(cfg *config.DiscordConfig) *Client {
	return &Client{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoints.Discord,
		},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiBaseURL: defaultAPIBaseURL,
	}
}

// ExchangeCode exchanges a single-use authorization code for a token set.
// The redirect URI must match the one used to initiate the flow
// bit-for-bit; Discord validates it on every exchange.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*Token, error) {
	cfg := *c.oauth2Config // copy
	cfg.RedirectURL = redirectURI

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, &ExchangeError{
				StatusCode:      retrieveErr.Response.StatusCode,
				ProviderMessage: string(retrieveErr.Body),
			}
		}
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	scope, _ := tok.Extra("scope").(string)
	logger.Info("Token received", zap.String("scopes", scope))

	token := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scopes:       strings.Fields(scope),
	}
	if !tok.Expiry.IsZero() {
		token.ExpiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	return token, nil
}

// FetchUser retrieves the authenticated user's profile.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (*User, error) {
	body, status, err := c.get(ctx, "/users/@me", accessToken)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &FetchError{StatusCode: status, ProviderMessage: string(body)}
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

// FetchGuilds retrieves the user's guild memberships. Guild visibility is
// an optional scope, so any failure degrades to an empty list instead of
// propagating an error.
func (c *Client) FetchGuilds(ctx context.Context, accessToken string) []Guild {
	body, status, err := c.get(ctx, "/users/@me/guilds", accessToken)
	if err != nil {
		logger.Warn("Guild fetch failed", zap.Error(err))
		return nil
	}
	if status != http.StatusOK {
		logger.Warn("Guild fetch returned non-OK status", zap.Int("status", status))
		return nil
	}

	var guilds []Guild
	if err := json.Unmarshal(body, &guilds); err != nil {
		logger.Warn("Failed to decode guilds response", zap.Error(err))
		return nil
	}
	return guilds
}

func (c *Client) get(ctx context.Context, path, accessToken string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
