package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/liushiyun/shuoshu/internal/analyzer"
	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/spf13/cobra"
)

var (
	analyzeTitle string
	analyzeModel string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run model-based deep analysis over a novel",
	Long: `Analyze a novel with an OpenAI-compatible chat model, chunk by chunk,
and print the merged analysis (theme, summary, characters, key scenes,
emotional arc) as JSON.

Requires OPENAI_API_KEY. The endpoint and model come from
OPENAI_BASE_URL and ANALYZER_MODEL.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "Novel title (default: file name)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Override the configured model")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if analyzeModel != "" {
		cfg.AnalyzerModel = analyzeModel
	}
	if err := cfg.ValidateForAnalyze(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read novel: %w", err)
	}

	title := analyzeTitle
	if title == "" {
		base := filepath.Base(args[0])
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	slog.Info("starting analysis", "title", title, "model", cfg.AnalyzerModel)

	a := analyzer.New(analyzer.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.AnalyzerModel,
	})

	analysis, err := a.AnalyzeNovel(ctx, title, string(data))
	if err != nil {
		return fmt.Errorf("analyze novel: %w", err)
	}

	return printJSON(analysis)
}
