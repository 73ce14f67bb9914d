// Package notify delivers verification summaries to an operator-owned
// Discord webhook. Delivery is strictly best-effort; the pipeline logs
// and swallows any failure reported here.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/logger"
	"github.com/gameservices/discordgw/internal/verify"
)

// WebhookNotifier posts an embed summary to a Discord webhook URL.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier targeting the given webhook URL.
func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ verify.Notifier = (*WebhookNotifier)(nil)

// Send posts the verification summary. A non-2xx response is an error;
// the caller decides that it does not matter.
func (n *WebhookNotifier) Send(ctx context.Context, record *verify.Record) error {
	payload, err := json.Marshal(buildPayload(record))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title     string     `json:"title"`
	Color     int        `json:"color"`
	Fields    []field    `json:"fields"`
	Thumbnail *thumbnail `json:"thumbnail,omitempty"`
	Timestamp string     `json:"timestamp"`
	Footer    footer     `json:"footer"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type footer struct {
	Text string `json:"text"`
}

func buildPayload(record *verify.Record) webhookPayload {
	user := record.User()

	email := record.Email
	if email == "" {
		email = "Not provided"
	}

	scopes := strings.Join(record.Scopes, " ")
	if scopes == "" {
		scopes = "Unknown"
	}

	return webhookPayload{
		Content: "🔔 **New User Verification**",
		Embeds: []embed{{
			Title: "✅ User Successfully Verified",
			Color: 0x00ff00,
			Fields: []field{
				{Name: "👤 User", Value: user.Tag(), Inline: true},
				{Name: "🆔 User ID", Value: record.DiscordID, Inline: true},
				{Name: "📧 Email", Value: email, Inline: true},
				{Name: "🏠 Servers", Value: fmt.Sprintf("%d servers", len(record.Guilds)), Inline: true},
				{Name: "🔑 Scopes", Value: scopes, Inline: false},
				{Name: "📊 Guild List", Value: guildList(record), Inline: false},
			},
			Thumbnail: &thumbnail{URL: user.AvatarURL()},
			Timestamp: record.CreatedAt.Format(time.RFC3339),
			Footer:    footer{Text: "Discord Verification System"},
		}},
	}
}

func guildList(record *verify.Record) string {
	if len(record.Guilds) == 0 {
		return "No servers found"
	}

	var b strings.Builder
	for i, g := range record.Guilds {
		if i == 5 {
			fmt.Fprintf(&b, "\n... and %d more", len(record.Guilds)-5)
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + g.Name)
	}
	return b.String()
}

// disabledNotifier is used when no webhook URL is configured.
type disabledNotifier struct{}

func (disabledNotifier) Send(ctx context.Context, record *verify.Record) error {
	return nil
}

// NewNotifier selects the notifier from configuration. An absent webhook
// URL disables notifications silently.
func NewNotifier(cfg *config.Config) verify.Notifier {
	if cfg.Notify.WebhookURL == "" {
		logger.Info("No notification webhook configured")
		return disabledNotifier{}
	}
	return NewWebhookNotifier(cfg.Notify.WebhookURL)
}
