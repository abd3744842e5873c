package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/liushiyun/shuoshu/internal/app"
	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/liushiyun/shuoshu/internal/tagger"
	"github.com/spf13/cobra"
)

var indexTitle string

var indexCmd = &cobra.Command{
	Use:   "index <file>",
	Short: "Add a novel's scenes to the scene index",
	Long: `Process a novel and store one vector per scene in the VecLite index
for similarity search.

The embedding provider comes from EMBED_PROVIDER: "feature" (offline
lexicon features, default) or "openai" (remote embeddings).`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "Novel title (default: file name)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForIndex(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read novel: %w", err)
	}

	title := indexTitle
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

	slog.Info("processing novel", "title", title, "bytes", len(data))
	chapters, err := pipe.ProcessChapters(string(data))
	if err != nil {
		return fmt.Errorf("process novel: %w", err)
	}

	index, err := app.OpenIndex(cfg, lex)
	if err != nil {
		return fmt.Errorf("open scene index: %w", err)
	}
	defer index.Close()

	indexed, err := index.IndexNovel(ctx, title, chapters)
	if err != nil {
		return fmt.Errorf("index scenes: %w", err)
	}
	if err := index.Sync(); err != nil {
		return fmt.Errorf("sync index: %w", err)
	}

	fmt.Printf("Indexed %d scenes of 《%s》 (%d total in index)\n", indexed, title, index.Count())
	return nil
}
