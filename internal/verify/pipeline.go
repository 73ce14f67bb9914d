package verify

import (
	"context"
	"errors"
	"net/url"

	"github.com/gameservices/discordgw/internal/discord"
	"github.com/gameservices/discordgw/internal/logger"
	"github.com/gameservices/discordgw/internal/obs"
	"go.uber.org/zap"
)

// CallbackPath is the route Discord redirects back to; the redirect URI
// sent during token exchange must be origin + CallbackPath.
const CallbackPath = "/api/auth/callback"

// Failure reasons surfaced to the end user via the redirect location.
// Provider-reported OAuth errors (access_denied, invalid_scope, ...)
// pass through verbatim.
const (
	ReasonNoCode         = "no_code"
	ReasonTokenFailed    = "token_failed"
	ReasonUserFailed     = "user_failed"
	ReasonCallbackFailed = "callback_failed"
)

const successLocation = "/verify?status=success"

// TokenExchanger performs the authorization-code exchange.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*discord.Token, error)
}

// ProfileFetcher retrieves the authenticated user's profile and guilds.
type ProfileFetcher interface {
	FetchUser(ctx context.Context, accessToken string) (*discord.User, error)
	FetchGuilds(ctx context.Context, accessToken string) []discord.Guild
}

// Store persists a verification record. Implementations must treat the
// write as best-effort from the pipeline's point of view.
type Store interface {
	SaveVerification(ctx context.Context, record *Record) (string, error)
}

// Notifier delivers a formatted verification summary to an operator
// channel. Delivery failures never fail verification.
type Notifier interface {
	Send(ctx context.Context, record *Record) error
}

// CallbackRequest carries everything the pipeline needs from the inbound
// OAuth callback request.
type CallbackRequest struct {
	Code          string
	ProviderError string
	Origin        string
	SourceIP      string
	UserAgent     string
}

// Outcome is the terminal result of the pipeline: an HTTP redirect
// location, success or failure.
type Outcome struct {
	Location string
}

// Success reports whether the outcome is the success redirect.
func (o Outcome) Success() bool {
	return o.Location == successLocation
}

// Pipeline runs the verification sequence: code exchange, profile fetch,
// guild fetch, then best-effort persistence and notification. Only the
// calls that establish identity are fatal; everything after degrades
// gracefully.
type Pipeline struct {
	exchanger TokenExchanger
	fetcher   ProfileFetcher
	store     Store
	notifier  Notifier
}

// NewPipeline creates a verification pipeline.
func NewPipeline(client *discord.Client, store Store, notifier Notifier) *Pipeline {
	return &Pipeline{
		exchanger: client,
		fetcher:   client,
		store:     store,
		notifier:  notifier,
	}
}

// NewPipelineWith wires a pipeline from explicit collaborators.
func NewPipelineWith(exchanger TokenExchanger, fetcher ProfileFetcher, store Store, notifier Notifier) *Pipeline {
	return &Pipeline{
		exchanger: exchanger,
		fetcher:   fetcher,
		store:     store,
		notifier:  notifier,
	}
}

// Run executes the pipeline for one callback request and always returns
// a terminal redirect outcome.
func (p *Pipeline) Run(ctx context.Context, req *CallbackRequest) Outcome {
	if req.ProviderError != "" {
		// The provider already reported a failure; nothing to exchange.
		logger.Warn("OAuth error reported by provider", zap.String("error", req.ProviderError))
		return failure(req.ProviderError, "")
	}

	if req.Code == "" {
		logger.Warn("No authorization code received")
		return failure(ReasonNoCode, "")
	}

	redirectURI := req.Origin + CallbackPath
	logger.Debug("Exchanging authorization code", zap.String("redirect_uri", redirectURI))

	token, err := p.exchanger.ExchangeCode(ctx, req.Code, redirectURI)
	if err != nil {
		logger.Error("Token exchange failed", zap.Error(err), zap.String("redirect_uri", redirectURI))
		var exchangeErr *discord.ExchangeError
		if errors.As(err, &exchangeErr) {
			return failure(ReasonTokenFailed, exchangeErr.ProviderMessage)
		}
		return failure(ReasonTokenFailed, err.Error())
	}

	user, err := p.fetcher.FetchUser(ctx, token.AccessToken)
	if err != nil {
		logger.Error("User fetch failed", zap.Error(err))
		return failure(ReasonUserFailed, "")
	}
	logger.Info("User authenticated",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)

	guilds := p.fetcher.FetchGuilds(ctx, token.AccessToken)
	logger.Info("User guilds received", zap.Int("count", len(guilds)))

	record := NewRecord(user, token, guilds, req)

	// Persistence is at-most-one best-effort write; an outage must not
	// discard a successful authentication.
	if id, err := p.store.SaveVerification(ctx, record); err != nil {
		logger.Error("Failed to save verification record",
			zap.Error(err),
			zap.String("discord_id", record.DiscordID),
		)
	} else {
		logger.Info("Verification record saved",
			zap.String("id", id),
			zap.String("discord_id", record.DiscordID),
		)
	}

	if err := p.notifier.Send(ctx, record); err != nil {
		logger.Error("Verification notification failed", zap.Error(err))
	}

	obs.ObserveVerification("success")
	return Outcome{Location: successLocation}
}

func failure(reason, details string) Outcome {
	obs.ObserveVerification(reason)
	location := "/verify?error=" + url.QueryEscape(reason)
	if details != "" {
		location += "&details=" + url.QueryEscape(details)
	}
	return Outcome{Location: location}
}
