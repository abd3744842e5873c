package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liushiyun/shuoshu/internal/notify"
	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/report"
	"github.com/liushiyun/shuoshu/internal/sceneindex"
	"github.com/liushiyun/shuoshu/internal/stats"
)

// Watcher periodically scans a directory and ingests new novel files.
type Watcher struct {
	dir      string
	interval time.Duration
	store    *stats.Store
	pipe     *pipeline.Pipeline
	index    *sceneindex.Store
	writers  []report.Writer
	notifier notify.Notifier
	filter   *Filter
	health   *Health
}

// Config holds watcher configuration.
type Config struct {
	// Dir is the watched directory.
	Dir string

	// Interval between scans (default: 30s).
	Interval time.Duration

	Store    *stats.Store
	Pipeline *pipeline.Pipeline

	// Index receives processed scenes when set.
	Index *sceneindex.Store

	// Writers render a report per ingested file.
	Writers []report.Writer

	// Notifier defaults to log-only delivery.
	Notifier notify.Notifier

	// Filter defaults to the standard text-file filter.
	Filter *Filter
}

// New creates a new watcher.
func New(cfg Config) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	filter := cfg.Filter
	if filter == nil {
		filter = NewFilter(FilterConfig{})
	}

	return &Watcher{
		dir:      cfg.Dir,
		interval: interval,
		store:    cfg.Store,
		pipe:     cfg.Pipeline,
		index:    cfg.Index,
		writers:  cfg.Writers,
		notifier: notifier,
		filter:   filter,
		health:   NewHealth(),
	}
}

// Run starts the watch loop. It scans once immediately, then on every
// tick until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("starting ingest watcher", "dir", w.dir, "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scanCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("ingest watcher shutting down")
			return ctx.Err()

		case <-ticker.C:
			w.scanCycle(ctx)
		}
	}
}

func (w *Watcher) scanCycle(ctx context.Context) {
	ingested, err := w.Scan(ctx)
	if err != nil {
		w.health.SetUnhealthy("scan", err)
		slog.Error("scan cycle failed", "error", err)
		return
	}

	w.health.SetHealthy("scan", fmt.Sprintf("%d files ingested", ingested))
	if ingested > 0 {
		slog.Info("scan cycle complete", "ingested", ingested)
	} else {
		slog.Debug("scan cycle complete, nothing new")
	}
}

// Scan runs one pass over the watched directory and ingests every new
// file that passes the filter. It returns the number of files ingested.
// Per-file failures are logged and skipped so one bad file cannot stall
// the rest.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read watch dir: %w", err)
	}

	ingested := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ingested, ctx.Err()
		default:
		}

		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("stat failed", "file", entry.Name(), "error", err)
			continue
		}

		if check := w.filter.Check(entry.Name(), info.Size()); !check.Pass {
			slog.Debug("skipping file", "file", entry.Name(), "reason", check.Reason)
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		fresh, err := w.ingestFile(ctx, path, info.Size())
		if err != nil {
			w.health.SetUnhealthy("ingest", err)
			slog.Error("ingest failed", "file", entry.Name(), "error", err)
			continue
		}
		if fresh {
			ingested++
		}
	}

	return ingested, nil
}

// ingestFile processes one file end to end. It reports false without
// error when the file's content was already ingested.
func (w *Watcher) ingestFile(ctx context.Context, path string, size int64) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}

	text := string(data)
	hash := stats.HashContent(text)

	seen, err := w.store.FileIngested(ctx, hash)
	if err != nil {
		return false, fmt.Errorf("check ingested: %w", err)
	}
	if seen {
		slog.Debug("file already ingested", "file", filepath.Base(path))
		return false, nil
	}

	// Content already processed through another surface keeps its
	// session; just record the file so future scans skip it early.
	existing, err := w.store.GetSessionByHash(ctx, hash)
	switch {
	case err == nil:
		if _, err := w.store.CreateIngestedFile(ctx, stats.CreateIngestedFileParams{
			Path:        path,
			ContentHash: hash,
			SizeBytes:   size,
			SessionID:   sql.NullInt64{Int64: existing.ID, Valid: true},
		}); err != nil {
			slog.Warn("failed to record ingested file", "file", filepath.Base(path), "error", err)
		}
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("find session: %w", err)
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	slog.Info("ingesting novel", "file", base, "bytes", size)

	chapters, err := w.pipe.ProcessChapters(text)
	if err != nil {
		return false, fmt.Errorf("process novel: %w", err)
	}

	rep := report.Build(title, chapters)
	t := rep.Tally

	session, _, err := w.store.FindOrCreateSession(ctx, stats.CreateSessionParams{
		Source:         "watch:" + base,
		ContentHash:    hash,
		ChapterCount:   int64(t.Chapters),
		SceneCount:     int64(t.Scenes),
		DialogueCount:  int64(t.Dialogues),
		CharacterCount: int64(t.Characters),
		ActionCount:    int64(t.Actions),
		PositiveScenes: int64(t.Positive),
		NegativeScenes: int64(t.Negative),
		NeutralScenes:  int64(t.Neutral),
		AvgIntensity:   t.AvgIntensity,
	})
	if err != nil {
		return false, fmt.Errorf("record session: %w", err)
	}
	rep.SessionKey = session.SessionKey

	if w.index != nil {
		indexed, err := w.index.IndexNovel(ctx, title, chapters)
		if err != nil {
			w.health.SetUnhealthy("index", err)
			slog.Error("indexing failed", "file", base, "error", err)
		} else {
			w.health.SetHealthy("index", fmt.Sprintf("%d scenes indexed", indexed))
		}
	}

	for _, writer := range w.writers {
		reportPath, err := writer.Write(rep)
		if err != nil {
			w.health.SetUnhealthy("report", err)
			slog.Error("report write failed", "format", writer.Format(), "error", err)
			continue
		}
		w.health.SetHealthy("report", "written")
		slog.Info("report written", "format", writer.Format(), "path", reportPath)
	}

	if _, err := w.store.CreateIngestedFile(ctx, stats.CreateIngestedFileParams{
		Path:        path,
		ContentHash: hash,
		SizeBytes:   size,
		SessionID:   sql.NullInt64{Int64: session.ID, Valid: true},
	}); err != nil {
		slog.Warn("failed to record ingested file", "file", base, "error", err)
	}

	if err := w.notifier.Send(ctx, notify.Notification{
		Subject:    "小说处理完成",
		Body:       fmt.Sprintf("《%s》已结构化：%d 章，%d 个场景，%d 个角色", title, t.Chapters, t.Scenes, t.Characters),
		SessionKey: session.SessionKey,
	}); err != nil {
		slog.Warn("notification failed", "error", err)
	}

	return true, nil
}

// Health returns the health tracker.
func (w *Watcher) Health() *Health {
	return w.health
}
