// Package report renders processed novels into files on disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/liushiyun/shuoshu/internal/analyzer"
	"github.com/liushiyun/shuoshu/internal/characters"
	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/sceneindex"
)

// Report is the renderable result of one processed novel.
type Report struct {
	Title       string                   `json:"title"`
	SessionKey  string                   `json:"session_key,omitempty"`
	GeneratedAt time.Time                `json:"generated_at"`
	Tally       pipeline.Tally           `json:"tally"`
	Chapters    []pipeline.ChapterScenes `json:"chapters"`
	Characters  []characters.Character   `json:"characters"`
	Highlights  []sceneindex.Highlight   `json:"highlights"`

	// Analysis is present only when the model-based analyzer ran.
	Analysis *analyzer.Analysis `json:"analysis,omitempty"`
}

// Writer renders a report into a file and returns its path.
type Writer interface {
	// Format names the output format.
	Format() string

	// Write renders the report to disk.
	Write(report Report) (string, error)
}

// Build assembles a report from processed chapters, deriving the
// character registry, highlight picks, and tally.
func Build(title string, chapters []pipeline.ChapterScenes) Report {
	registry := characters.NewRegistry()
	scene := 0
	for _, ch := range chapters {
		for _, s := range ch.Scenes {
			registry.Observe(scene, s.Characters)
			scene++
		}
	}

	return Report{
		Title:       title,
		GeneratedAt: time.Now(),
		Tally:       pipeline.TallyChapters(chapters),
		Chapters:    chapters,
		Characters:  registry.Characters(),
		Highlights:  sceneindex.Highlights(chapters, sceneindex.HighlightConfig{}),
	}
}

// fileStem derives a filesystem-safe stem for the report files.
func fileStem(report Report) string {
	stem := slug(report.Title)
	if stem == "" {
		stem = "novel"
	}
	if report.SessionKey != "" {
		return stem + "-" + report.SessionKey
	}
	ts := report.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return stem + "-" + ts.Format("20060102-150405")
}

// slug keeps letters, digits and han characters, mapping runs of
// anything else to single dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// writeFileAtomic writes data under dir via a temp file and rename, so
// a crashed writer never leaves a partial report behind.
func writeFileAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close report: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename report: %w", err)
	}
	return path, nil
}
