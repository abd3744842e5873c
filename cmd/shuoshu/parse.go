package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/liushiyun/shuoshu/internal/app"
	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/liushiyun/shuoshu/internal/report"
	"github.com/liushiyun/shuoshu/internal/stats"
	"github.com/liushiyun/shuoshu/internal/tagger"
	"github.com/spf13/cobra"
)

var (
	parseChapters bool
	parseScenes   bool
	parseTitle    string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Structure a novel file into chapters and scenes",
	Long: `Parse a novel text file and print the structured records as JSON.

Examples:
  shuoshu parse novels/xiyouji.txt              # Full structured report
  shuoshu parse novels/xiyouji.txt --chapters   # Chapter records only
  shuoshu parse novels/xiyouji.txt --scenes     # Scene records only`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseChapters, "chapters", false, "Print chapter records only")
	parseCmd.Flags().BoolVar(&parseScenes, "scenes", false, "Print scene records only")
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "Novel title (default: file name)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read novel: %w", err)
	}
	text := string(data)

	title := parseTitle
	if title == "" {
		base := filepath.Base(args[0])
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	lex, err := app.NewLexicon(cfg)
	if err != nil {
		return err
	}
	tg, err := tagger.NewGse(cfg.TaggerDicts...)
	if err != nil {
		return fmt.Errorf("load tagger: %w", err)
	}
	pipe := app.NewPipeline(cfg, lex, tg)

	if parseChapters {
		return printJSON(pipe.ParseChapters(text))
	}
	if parseScenes {
		scenes, err := pipe.ProcessNovel(text)
		if err != nil {
			return fmt.Errorf("process novel: %w", err)
		}
		return printJSON(scenes)
	}

	chapters, err := pipe.ProcessChapters(text)
	if err != nil {
		return fmt.Errorf("process novel: %w", err)
	}
	rep := report.Build(title, chapters)

	// Record the run; the report is still printed if the database is
	// unavailable.
	if err := recordParseSession(ctx, cfg, args[0], text, &rep); err != nil {
		slog.Warn("failed to record session", "error", err)
	}

	return printJSON(rep)
}

func recordParseSession(ctx context.Context, cfg *config.Config, path, text string, rep *report.Report) error {
	store, err := stats.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	t := rep.Tally
	session, _, err := store.FindOrCreateSession(ctx, stats.CreateSessionParams{
		Source:         "cli:" + filepath.Base(path),
		ContentHash:    stats.HashContent(text),
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
		return err
	}

	rep.SessionKey = session.SessionKey
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
