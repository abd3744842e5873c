package notify

import "context"

// Notification represents a notification message.
type Notification struct {
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	SessionKey string `json:"session_key,omitempty"`
}

// Notifier is the interface for sending notifications.
type Notifier interface {
	// Send sends a notification.
	Send(ctx context.Context, notification Notification) error
}

// New returns a webhook notifier when a URL is configured, otherwise a
// log-only notifier.
func New(webhookURL string) Notifier {
	if webhookURL == "" {
		return LogNotifier{}
	}
	return NewWebhookNotifier(WebhookConfig{URL: webhookURL})
}
