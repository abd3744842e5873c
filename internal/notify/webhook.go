package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookNotifier delivers notifications as JSON POSTs to a configured
// endpoint.
type WebhookNotifier struct {
	httpClient *http.Client
	url        string
}

// WebhookConfig holds configuration for the webhook notifier.
type WebhookConfig struct {
	URL string

	// Timeout bounds each delivery attempt (default: 10s).
	Timeout time.Duration
}

// NewWebhookNotifier creates a new webhook notifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
	}
}

// webhookPayload is the request body sent to the endpoint.
type webhookPayload struct {
	Notification
	SentAt time.Time `json:"sent_at"`
}

// Send delivers the notification. Any non-2xx response is an error.
func (w *WebhookNotifier) Send(ctx context.Context, notification Notification) error {
	body, err := json.Marshal(webhookPayload{
		Notification: notification,
		SentAt:       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook rejected notification (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}
