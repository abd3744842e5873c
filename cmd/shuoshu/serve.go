package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/liushiyun/shuoshu/internal/app"
	"github.com/liushiyun/shuoshu/internal/config"
	"github.com/liushiyun/shuoshu/internal/ingest"
	"github.com/liushiyun/shuoshu/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and ingest daemon",
	Long: `Serve the structuring API over HTTP. When WATCH_DIR is set, also run
the ingest watcher that picks up new novel files on an interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer application.Close()

	var watcher *ingest.Watcher
	if cfg.WatchDir != "" {
		watcher = ingest.New(ingest.Config{
			Dir:      cfg.WatchDir,
			Interval: cfg.WatchInterval,
			Store:    application.Store,
			Pipeline: application.Pipeline,
			Index:    application.Index,
			Writers:  application.Writers,
			Notifier: application.Notifier,
		})
	}

	srv := server.New(server.Config{
		Addr:           cfg.HTTPAddr,
		Store:          application.Store,
		Pipeline:       application.Pipeline,
		Tagger:         application.Tagger,
		Index:          application.Index,
		Writers:        application.Writers,
		Watcher:        watcher,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	slog.Info("starting shuoshu daemon",
		"addr", cfg.HTTPAddr,
		"watch_dir", cfg.WatchDir,
		"watch_interval", cfg.WatchInterval,
	)

	errCh := make(chan error, 2)
	go func() {
		errCh <- srv.Run(ctx)
	}()
	if watcher != nil {
		go func() {
			errCh <- watcher.Run(ctx)
		}()
	}

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("daemon error: %w", err)
		}
	}

	slog.Info("shutting down...")
	cancel()

	return nil
}
