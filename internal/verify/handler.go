package verify

import (
	"net/http"
	"strings"

	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/logger"
	"go.uber.org/zap"
)

// HTTPHandler serves the OAuth callback route. It translates the HTTP
// request into a CallbackRequest, runs the pipeline and always responds
// with a redirect, never a raw error page.
type HTTPHandler struct {
	pipeline *Pipeline
	baseURL  string
}

// NewHTTPHandler creates the callback handler. cfg.Discord.BaseURL, when
// set, overrides the origin derived from the inbound request.
func NewHTTPHandler(pipeline *Pipeline, cfg *config.Config) *HTTPHandler {
	return &HTTPHandler{
		pipeline: pipeline,
		baseURL:  strings.TrimSuffix(cfg.Discord.BaseURL, "/"),
	}
}

// HandleCallback handles GET and POST requests from the OAuth redirect.
func (h *HTTPHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Callback handler panicked", zap.Any("panic", rec))
			http.Redirect(w, r, "/verify?error="+ReasonCallbackFailed, http.StatusFound)
		}
	}()

	query := r.URL.Query()
	req := &CallbackRequest{
		Code:          query.Get("code"),
		ProviderError: query.Get("error"),
		Origin:        h.origin(r),
		SourceIP:      sourceIP(r),
		UserAgent:     userAgent(r),
	}

	logger.Info("Discord callback received",
		zap.Bool("has_code", req.Code != ""),
		zap.String("error", req.ProviderError),
	)

	outcome := h.pipeline.Run(r.Context(), req)
	http.Redirect(w, r, outcome.Location, http.StatusFound)
}

// origin returns the scheme://host the callback was reached on, used to
// rebuild the exact redirect URI the flow was initiated with.
func (h *HTTPHandler) origin(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func sourceIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop is the client
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return "unknown"
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}
