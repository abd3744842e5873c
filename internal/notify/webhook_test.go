package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_Send(t *testing.T) {
	t.Run("posts JSON payload", func(t *testing.T) {
		var received webhookPayload
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		n := NewWebhookNotifier(WebhookConfig{URL: server.URL})
		err := n.Send(context.Background(), Notification{
			Subject:    "处理完成",
			Body:       "《测试小说》已结构化",
			SessionKey: "sess1",
		})

		require.NoError(t, err)
		assert.Equal(t, "处理完成", received.Subject)
		assert.Equal(t, "《测试小说》已结构化", received.Body)
		assert.Equal(t, "sess1", received.SessionKey)
		assert.False(t, received.SentAt.IsZero())
	})

	t.Run("accepts any 2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		n := NewWebhookNotifier(WebhookConfig{URL: server.URL})
		assert.NoError(t, n.Send(context.Background(), Notification{Subject: "s"}))
	})

	t.Run("error on rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer server.Close()

		n := NewWebhookNotifier(WebhookConfig{URL: server.URL})
		err := n.Send(context.Background(), Notification{Subject: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("error on unreachable endpoint", func(t *testing.T) {
		n := NewWebhookNotifier(WebhookConfig{
			URL:     "http://127.0.0.1:1",
			Timeout: time.Second,
		})
		assert.Error(t, n.Send(context.Background(), Notification{Subject: "s"}))
	})
}

func TestLogNotifier_Send(t *testing.T) {
	err := LogNotifier{}.Send(context.Background(), Notification{
		Subject: "处理完成",
		Body:    "正文",
	})
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Run("webhook when URL set", func(t *testing.T) {
		n := New("http://example.com/hook")
		assert.IsType(t, &WebhookNotifier{}, n)
	})

	t.Run("log fallback", func(t *testing.T) {
		n := New("")
		assert.IsType(t, LogNotifier{}, n)
	})
}
