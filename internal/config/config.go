package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// VecLite scene index
	VecLitePath   string // Path to VecLite database (default: data/scenes.veclite)
	EmbedProvider string // Embedding provider: "feature" or "openai" (default: feature)

	// OpenAI-compatible API (analysis and embeddings)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	AnalyzerModel string
	EmbedModel    string

	// Lexicon and tagger
	LexiconPack string   // Optional YAML word-list pack extending the defaults
	TaggerDicts []string // gse dictionary files; empty means the embedded dict

	// Segmentation
	StrictMarkers  bool
	DialogueDedupe bool
	SceneWorkers   int

	// HTTP server
	HTTPAddr       string
	MaxUploadBytes int64

	// Reports
	ReportsDir string

	// Ingest watcher
	WatchDir      string
	WatchInterval time.Duration

	// Notifications
	WebhookURL string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:  getEnv("DATABASE_PATH", "data/shuoshu.db"),
		VecLitePath:   getEnv("VECLITE_PATH", "data/scenes.veclite"),
		EmbedProvider: getEnv("EMBED_PROVIDER", "feature"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: normalizeBaseURL(getEnv("OPENAI_BASE_URL", "https://openai.qiniu.com/v1")),
		AnalyzerModel: getEnv("ANALYZER_MODEL", "deepseek/deepseek-v3.1-terminus"),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-3-small"),
		LexiconPack:   getEnv("LEXICON_PACK", ""),
		TaggerDicts:   splitList(getEnv("TAGGER_DICTS", "")),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		ReportsDir:    getEnv("REPORTS_DIR", "reports"),
		WatchDir:      getEnv("WATCH_DIR", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	// Parse durations
	var err error
	cfg.WatchInterval, err = time.ParseDuration(getEnv("WATCH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: %w", err)
	}

	// Parse integers
	workers, err := strconv.Atoi(getEnv("SCENE_WORKERS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCENE_WORKERS: %w", err)
	}
	cfg.SceneWorkers = workers

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "16777216"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	cfg.MaxUploadBytes = maxUpload

	// Parse booleans
	cfg.StrictMarkers, err = strconv.ParseBool(getEnv("STRICT_MARKERS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_MARKERS: %w", err)
	}
	cfg.DialogueDedupe, err = strconv.ParseBool(getEnv("DIALOGUE_DEDUPE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIALOGUE_DEDUPE: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForAnalyze checks configuration needed for LLM analysis.
func (c *Config) ValidateForAnalyze() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for analysis")
	}
	if c.AnalyzerModel == "" {
		return fmt.Errorf("ANALYZER_MODEL is required for analysis")
	}
	return nil
}

// ValidateForEmbedding checks configuration needed for scene vectors.
func (c *Config) ValidateForEmbedding() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.EmbedProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when EMBED_PROVIDER is openai")
		}
	case "feature", "":
		// Lexicon feature vectors need no credentials.
	default:
		return fmt.Errorf("invalid EMBED_PROVIDER: %s (must be 'feature' or 'openai')", c.EmbedProvider)
	}
	return nil
}

// ValidateForIndex checks configuration needed for the scene index.
func (c *Config) ValidateForIndex() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required")
	}
	return c.ValidateForEmbedding()
}

// ValidateForWatch checks configuration needed for the ingest watcher.
func (c *Config) ValidateForWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.WatchDir == "" {
		return fmt.Errorf("WATCH_DIR is required for watching")
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required for serve mode")
	}
	return c.ValidateForIndex()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// splitList parses a comma-separated environment value.
func splitList(val string) []string {
	if val == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// normalizeBaseURL ensures the API base URL has a scheme and no trailing
// slash, so path joining stays predictable.
func normalizeBaseURL(url string) string {
	if url == "" {
		return url
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return strings.TrimRight(url, "/")
}
