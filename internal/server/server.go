// Package server composes the gateway's HTTP surface: the OAuth
// callback route, the interaction webhook and the operational endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/interactions"
	"github.com/gameservices/discordgw/internal/logger"
	"github.com/gameservices/discordgw/internal/obs"
	"github.com/gameservices/discordgw/internal/verify"
)

const (
	// WebhookPath is the route Discord pushes signed interactions to.
	WebhookPath = "/api/discord/webhook"

	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server is the gateway HTTP server.
type Server struct {
	config   *config.Config
	callback *verify.HTTPHandler
	webhook  *interactions.Handler
}

// NewServer creates the gateway server from its route handlers.
func NewServer(cfg *config.Config, callback *verify.HTTPHandler, webhook *interactions.Handler) *Server {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	return &Server{
		config:   cfg,
		callback: callback,
		webhook:  webhook,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(obs.Instrument)
	r.Use(middleware.Recoverer)

	// Discord redelivers the callback as POST in some flows
	r.Get(verify.CallbackPath, s.callback.HandleCallback)
	r.Post(verify.CallbackPath, s.callback.HandleCallback)

	r.Post(WebhookPath, s.webhook.HandleWebhook)

	r.Handle("/metrics", obs.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// loggingMiddleware logs requests without touching their bodies.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

// Start runs the server until the context is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server", zap.String("address", addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

// Module provides the HTTP server dependencies
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
	),
)
