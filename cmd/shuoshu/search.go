package main

import (
	"fmt"
	"strings"

	"github.com/liushiyun/shuoshu/internal/app"
	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/liushiyun/shuoshu/internal/sceneindex"
	"github.com/spf13/cobra"
)

var (
	searchTopK    int
	searchNovel   string
	searchEmotion string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the scene index",
	Long: `Search indexed scenes by similarity.

Examples:
  shuoshu search "月夜下的告别"
  shuoshu search "打斗" --novel 西游记 --top 3
  shuoshu search "离别" --emotion negative`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchTopK, "top", 5, "Number of results")
	searchCmd.Flags().StringVar(&searchNovel, "novel", "", "Restrict to one novel")
	searchCmd.Flags().StringVar(&searchEmotion, "emotion", "", "Restrict to one emotion (positive/negative/neutral)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForIndex(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	lex, err := app.NewLexicon(cfg)
	if err != nil {
		return err
	}

	index, err := app.OpenIndex(cfg, lex)
	if err != nil {
		return fmt.Errorf("open scene index: %w", err)
	}
	defer index.Close()

	var results []sceneindex.SearchResult
	switch {
	case searchNovel != "":
		results, err = index.SearchByNovel(ctx, query, searchNovel, searchTopK)
	case searchEmotion != "":
		results, err = index.SearchByEmotion(ctx, query, searchEmotion, searchTopK)
	default:
		results, err = index.Search(ctx, query, searchTopK)
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching scenes.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. 《%s》 第%d章 场景%d  %s %.2f  (similarity %.3f)\n",
			i+1, result.Novel, result.Chapter, result.Ordinal+1,
			result.Emotion, result.Intensity, result.Similarity)
		fmt.Printf("   %s\n", sceneindex.Excerpt(result.Text, 60))
	}

	return nil
}
