package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// Novel represents a public-domain Chinese classic to download.
type Novel struct {
	Filename string
	Title    string
	URL      string
}

// Novels to download from Project Gutenberg (UTF-8 editions).
var novels = []Novel{
	{
		Filename: "hongloumeng.txt",
		Title:    "红楼梦",
		URL:      "https://www.gutenberg.org/cache/epub/24264/pg24264.txt",
	},
	{
		Filename: "sanguoyanyi.txt",
		Title:    "三国演义",
		URL:      "https://www.gutenberg.org/cache/epub/23950/pg23950.txt",
	},
	{
		Filename: "shuihuzhuan.txt",
		Title:    "水浒传",
		URL:      "https://www.gutenberg.org/cache/epub/23863/pg23863.txt",
	},
	{
		Filename: "xiyouji.txt",
		Title:    "西游记",
		URL:      "https://www.gutenberg.org/cache/epub/23962/pg23962.txt",
	},
	{
		Filename: "rulinwaishi.txt",
		Title:    "儒林外史",
		URL:      "https://www.gutenberg.org/cache/epub/25331/pg25331.txt",
	},
	{
		Filename: "liaozhai.txt",
		Title:    "聊斋志异",
		URL:      "https://www.gutenberg.org/cache/epub/25245/pg25245.txt",
	},
}

var (
	fetchForce bool
	novelsDir  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download Chinese classics from Project Gutenberg",
	Long: `Download public-domain Chinese classics from Project Gutenberg to the
novels/ directory.

Novels downloaded:
  - 红楼梦 (Dream of the Red Chamber)
  - 三国演义 (Romance of the Three Kingdoms)
  - 水浒传 (Water Margin)
  - 西游记 (Journey to the West)
  - 儒林外史 (The Scholars)
  - 聊斋志异 (Strange Tales from a Chinese Studio)`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVarP(&fetchForce, "force", "f", false, "Re-download even if file exists")
	fetchCmd.Flags().StringVar(&novelsDir, "dir", "novels", "Directory to save novels")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Create novels directory if it doesn't exist
	if err := os.MkdirAll(novelsDir, 0755); err != nil {
		return fmt.Errorf("create novels directory: %w", err)
	}

	client := &http.Client{
		Timeout: 60 * time.Second,
	}

	fmt.Println("Downloading Chinese classics from Project Gutenberg...")
	fmt.Println()

	downloaded := 0
	skipped := 0

	for _, novel := range novels {
		path := filepath.Join(novelsDir, novel.Filename)

		// Check if already exists
		if !fetchForce {
			if _, err := os.Stat(path); err == nil {
				fmt.Printf("  ✓ %s (already downloaded)\n", novel.Title)
				skipped++
				continue
			}
		}

		fmt.Printf("  ↓ Downloading %s...", novel.Title)

		if err := downloadFile(cmd.Context(), client, novel.URL, path); err != nil {
			fmt.Printf(" ERROR: %v\n", err)
			slog.Error("failed to download novel", "title", novel.Title, "error", err)
			continue
		}

		fmt.Println(" done")
		downloaded++
	}

	fmt.Println()
	fmt.Printf("Downloaded: %d, Skipped: %d\n", downloaded, skipped)
	fmt.Printf("Novels saved to: %s/\n", novelsDir)

	return nil
}

func downloadFile(ctx context.Context, client *http.Client, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}
