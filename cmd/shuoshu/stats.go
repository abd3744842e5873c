package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liushiyun/shuoshu/internal/app"
	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/liushiyun/shuoshu/internal/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show processing statistics",
	Long:  `Display totals across recorded sessions, ingested files and the scene index.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := stats.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	// Ensure migrations are run
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	totals, err := store.SessionTotals(ctx)
	if err != nil {
		return fmt.Errorf("load totals: %w", err)
	}

	files, err := store.CountIngestedFiles(ctx)
	if err != nil {
		return fmt.Errorf("count ingested files: %w", err)
	}

	// Print stats
	fmt.Println("=== Shuoshu Statistics ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Println()
	fmt.Println("Sessions:")
	fmt.Printf("  Total: %d\n", totals.Sessions)
	fmt.Printf("  Chapters: %d\n", totals.Chapters)
	fmt.Printf("  Scenes: %d\n", totals.Scenes)
	fmt.Printf("  Dialogues: %d\n", totals.Dialogues)
	fmt.Printf("  Actions: %d\n", totals.Actions)
	fmt.Printf("  Characters: %d\n", totals.Characters)
	fmt.Println()
	fmt.Println("Emotion split:")
	fmt.Printf("  Positive scenes: %d\n", totals.PositiveScenes)
	fmt.Printf("  Negative scenes: %d\n", totals.NegativeScenes)
	fmt.Printf("  Neutral scenes: %d\n", totals.NeutralScenes)
	fmt.Printf("  Average intensity: %.3f\n", totals.AvgIntensity)
	fmt.Println()
	fmt.Printf("Ingested files: %d\n", files)
	fmt.Println()

	// Check scene index stats if configured
	if cfg.VecLitePath != "" {
		lex, err := app.NewLexicon(cfg)
		if err != nil {
			return err
		}
		index, err := app.OpenIndex(cfg, lex)
		if err != nil {
			slog.Warn("failed to open scene index", "error", err)
		} else {
			defer index.Close()
			indexStats := index.Stats()
			fmt.Println("Scene index:")
			fmt.Printf("  Path: %s\n", cfg.VecLitePath)
			fmt.Printf("  Scenes: %d\n", indexStats.Count)
			fmt.Printf("  Dimension: %d\n", indexStats.Dimension)
			fmt.Printf("  Distance: %s\n", indexStats.DistanceType)
			fmt.Println()
		}
	}

	return nil
}
