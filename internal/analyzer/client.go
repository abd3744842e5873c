package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

const (
	defaultBaseURL = "https://openai.qiniu.com/v1"
	defaultModel   = "deepseek/deepseek-v3.1-terminus"
	maxTokens      = 4096

	maxAttempts = 3
)

// Wait schedules between retry attempts. Rate limits back off much longer
// than transient server errors.
var (
	rateLimitWaits   = []time.Duration{30 * time.Second, 60 * time.Second}
	serverErrorWaits = []time.Duration{5 * time.Second, 15 * time.Second}
)

// Client wraps an OpenAI-compatible chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// ClientConfig holds configuration for the completion client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	)
	return &Client{
		client: &client,
		model:  model,
	}
}

// Complete sends a system+user completion request and returns the text of
// the first choice. Rate limits and server errors are retried with
// backoff; other errors return immediately.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: system},
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: user},
					},
				},
			},
		},
		MaxCompletionTokens: openai.Int(maxTokens),
		Temperature:         openai.Float(0.7),
		ResponseFormat:      chunkAnalysisResponseFormat(),
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err
			if wait, retryable := retryWait(err, attempt); retryable {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return "", fmt.Errorf("chat completion: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("no choices returned")
		}
		if resp.Choices[0].Message.Content == "" {
			return "", errors.New("empty completion content")
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("chat completion failed after %d attempts: %w", maxAttempts, lastErr)
}

// retryWait decides whether err is worth retrying on the given attempt
// and how long to wait first.
func retryWait(err error, attempt int) (time.Duration, bool) {
	if attempt >= maxAttempts-1 {
		return 0, false
	}
	if isRateLimitError(err) {
		return rateLimitWaits[min(attempt, len(rateLimitWaits)-1)], true
	}
	if isServerError(err) {
		return serverErrorWaits[min(attempt, len(serverErrorWaits)-1)], true
	}
	return 0, false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "internal server error") ||
		strings.Contains(msg, "server_error")
}
