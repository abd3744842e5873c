package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liushiyun/shuoshu/internal/notify"
	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/report"
	"github.com/liushiyun/shuoshu/internal/stats"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

const novelText = `第一章 初见

李明走进院子。“你好。”李明说。

第二章 离别

王芳离开了车站，低头不语。`

func newTestStore(t *testing.T) *stats.Store {
	t.Helper()

	ctx := context.Background()
	store, err := stats.NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

func newTestPipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		Tagger:  &tagger.Static{Names: []string{"李明", "王芳"}},
		Workers: 1,
	})
}

// captureNotifier records notifications instead of delivering them.
type captureNotifier struct {
	sent []notify.Notification
}

func (c *captureNotifier) Send(ctx context.Context, n notify.Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func TestWatcher_Scan(t *testing.T) {
	ctx := context.Background()
	watchDir := t.TempDir()
	reportsDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(watchDir, "novel.txt"), []byte(novelText), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(watchDir, "skip.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(watchDir, ".hidden.txt"), []byte(novelText), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(watchDir, "sub"), 0o755))

	store := newTestStore(t)
	notifier := &captureNotifier{}

	w := New(Config{
		Dir:      watchDir,
		Store:    store,
		Pipeline: newTestPipeline(),
		Writers:  []report.Writer{report.JSONWriter{Dir: reportsDir}},
		Notifier: notifier,
	})

	ingested, err := w.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ingested)

	t.Run("records session and file", func(t *testing.T) {
		sessions, err := store.ListSessions(ctx, 10)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "watch:novel.txt", sessions[0].Source)
		assert.Equal(t, int64(2), sessions[0].ChapterCount)
		assert.Greater(t, sessions[0].SceneCount, int64(0))
		assert.Greater(t, sessions[0].CharacterCount, int64(0))

		files, err := store.CountIngestedFiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), files)
	})

	t.Run("writes report", func(t *testing.T) {
		entries, err := os.ReadDir(reportsDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasPrefix(entries[0].Name(), "novel-"))
		assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
	})

	t.Run("sends notification", func(t *testing.T) {
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "小说处理完成", notifier.sent[0].Subject)
		assert.Contains(t, notifier.sent[0].Body, "《novel》")
		assert.NotEmpty(t, notifier.sent[0].SessionKey)
	})

	t.Run("second scan ingests nothing", func(t *testing.T) {
		ingested, err := w.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, ingested)

		sessions, err := store.CountSessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), sessions)
		assert.Len(t, notifier.sent, 1)
	})

	t.Run("same content under a new name is skipped", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(watchDir, "copy.txt"), []byte(novelText), 0o644))

		ingested, err := w.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, ingested)
	})

	t.Run("new content is ingested", func(t *testing.T) {
		fresh := "第一章 新篇\n\n张强登场了。"
		require.NoError(t, os.WriteFile(filepath.Join(watchDir, "fresh.txt"), []byte(fresh), 0o644))

		ingested, err := w.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, ingested)

		sessions, err := store.CountSessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), sessions)
	})

	t.Run("health reflects clean run", func(t *testing.T) {
		assert.True(t, w.Health().IsOverallHealthy())
	})
}

func TestWatcher_ScanMissingDir(t *testing.T) {
	w := New(Config{
		Dir:      filepath.Join(t.TempDir(), "gone"),
		Store:    newTestStore(t),
		Pipeline: newTestPipeline(),
	})

	_, err := w.Scan(context.Background())
	require.Error(t, err)
}

func TestWatcher_Defaults(t *testing.T) {
	w := New(Config{Dir: t.TempDir()})

	assert.Equal(t, "30s", w.interval.String())
	assert.NotNil(t, w.filter)
	assert.IsType(t, notify.LogNotifier{}, w.notifier)
	assert.NotNil(t, w.Health())
}
