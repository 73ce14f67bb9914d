package interactions

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gameservices/discordgw/internal/logger"
	"go.uber.org/zap"
)

const (
	// SignatureHeader carries the hex-encoded detached Ed25519 signature.
	SignatureHeader = "X-Signature-Ed25519"
	// TimestampHeader carries the decimal timestamp the body was signed with.
	TimestampHeader = "X-Signature-Timestamp"

	maxBodySize = 1 << 20
)

// Handler serves the interaction webhook endpoint.
type Handler struct {
	dispatcher *Dispatcher
	publicKey  ed25519.PublicKey
}

// NewHandler creates a webhook handler verifying against the given key.
func NewHandler(dispatcher *Dispatcher, publicKey ed25519.PublicKey) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		publicKey:  publicKey,
	}
}

// HandleWebhook handles POST requests from Discord. The raw body is
// captured once and reused for both signature verification and parsing.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Webhook handler panicked", zap.Any("panic", rec))
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logger.Error("Failed to read webhook body", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	signature := r.Header.Get(SignatureHeader)
	timestamp := r.Header.Get(TimestampHeader)
	if signature == "" || timestamp == "" {
		respondError(w, http.StatusUnauthorized, "Missing signature headers")
		return
	}

	if !VerifySignature(body, signature, timestamp, h.publicKey) {
		logger.Warn("Webhook signature verification failed",
			zap.String("remote_addr", r.RemoteAddr),
		)
		respondError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var interaction Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		logger.Error("Failed to parse interaction body", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp, err := h.dispatcher.Dispatch(&interaction)
	if err != nil {
		if errors.Is(err, ErrUnknownType) {
			respondError(w, http.StatusBadRequest, "Unknown interaction type")
			return
		}
		logger.Error("Interaction dispatch failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
