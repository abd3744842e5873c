// Package app wires configuration into the shared service graph used by
// the CLI commands and the HTTP server.
package app

import (
	"context"
	"fmt"

	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/liushiyun/shuoshu/internal/dialogue"
	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/notify"
	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/report"
	"github.com/liushiyun/shuoshu/internal/sceneindex"
	"github.com/liushiyun/shuoshu/internal/segment"
	"github.com/liushiyun/shuoshu/internal/stats"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

// App is the main application container holding all dependencies.
type App struct {
	Config   *config.Config
	Store    *stats.Store
	Lexicon  *lexicon.Set
	Tagger   tagger.Tagger
	Pipeline *pipeline.Pipeline
	Index    *sceneindex.Store
	Notifier notify.Notifier
	Writers  []report.Writer
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := stats.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	lex, err := NewLexicon(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	tg, err := tagger.NewGse(cfg.TaggerDicts...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load tagger: %w", err)
	}

	index, err := OpenIndex(cfg, lex)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Lexicon:  lex,
		Tagger:   tg,
		Pipeline: NewPipeline(cfg, lex, tg),
		Index:    index,
		Notifier: notify.New(cfg.WebhookURL),
		Writers: []report.Writer{
			report.MarkdownWriter{Dir: cfg.ReportsDir},
			report.JSONWriter{Dir: cfg.ReportsDir},
		},
	}, nil
}

// NewLexicon compiles the built-in word lists, extended by the optional
// lexicon pack named in the config.
func NewLexicon(cfg *config.Config) (*lexicon.Set, error) {
	lists := lexicon.DefaultLists()
	if cfg.LexiconPack != "" {
		pack, err := lexicon.LoadPack(cfg.LexiconPack)
		if err != nil {
			return nil, err
		}
		lists = lists.Merge(pack)
	}

	lex, err := lexicon.New(lists)
	if err != nil {
		return nil, fmt.Errorf("compile lexicon: %w", err)
	}
	return lex, nil
}

// NewPipeline builds the structuring pipeline from config and shared
// components.
func NewPipeline(cfg *config.Config, lex *lexicon.Set, tg tagger.Tagger) *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		Lexicon:  lex,
		Tagger:   tg,
		Workers:  cfg.SceneWorkers,
		Segment:  segment.Options{StrictMarkers: cfg.StrictMarkers},
		Dialogue: dialogue.Options{DedupeSpans: cfg.DialogueDedupe},
	})
}

// NewEmbedder selects the scene embedder named by the config.
func NewEmbedder(cfg *config.Config, lex *lexicon.Set) (sceneindex.Embedder, error) {
	switch cfg.EmbedProvider {
	case "openai":
		return sceneindex.NewOpenAIEmbedder(sceneindex.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.EmbedModel,
		}), nil
	case "feature", "":
		return sceneindex.NewFeatureVectorizer(lex), nil
	default:
		return nil, fmt.Errorf("unknown embed provider: %s", cfg.EmbedProvider)
	}
}

// OpenIndex opens the scene index configured by cfg.
func OpenIndex(cfg *config.Config, lex *lexicon.Set) (*sceneindex.Store, error) {
	embedder, err := NewEmbedder(cfg, lex)
	if err != nil {
		return nil, err
	}

	return sceneindex.Open(sceneindex.Config{
		Path:     cfg.VecLitePath,
		Embedder: embedder,
	})
}

// Close closes all resources.
func (a *App) Close() error {
	var firstErr error
	if a.Index != nil {
		if err := a.Index.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
