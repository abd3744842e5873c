package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the log. It is the fallback when
// no delivery channel is configured.
type LogNotifier struct{}

// Send logs the notification.
func (LogNotifier) Send(ctx context.Context, notification Notification) error {
	slog.Info("notification",
		"subject", notification.Subject,
		"body", notification.Body,
		"session", notification.SessionKey,
	)
	return nil
}
