// Package server exposes the structuring pipeline, session statistics
// and the scene index over an HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liushiyun/shuoshu/internal/ingest"
	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/report"
	"github.com/liushiyun/shuoshu/internal/sceneindex"
	"github.com/liushiyun/shuoshu/internal/stats"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string

	Store    *stats.Store
	Pipeline *pipeline.Pipeline
	Tagger   tagger.Tagger

	// Index enables /api/search and scene indexing when set.
	Index *sceneindex.Store

	// Writers render a report per processed novel.
	Writers []report.Writer

	// Watcher contributes its component states to /healthz when set.
	Watcher *ingest.Watcher

	// MaxUploadBytes caps /api/upload bodies (default: 16 MiB).
	MaxUploadBytes int64
}

// Server serves the HTTP API.
type Server struct {
	addr      string
	store     *stats.Store
	pipe      *pipeline.Pipeline
	tg        tagger.Tagger
	index     *sceneindex.Store
	writers   []report.Writer
	watcher   *ingest.Watcher
	maxUpload int64

	engine *gin.Engine
}

// New creates a Server and registers its routes.
func New(cfg Config) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 16 << 20
	}

	s := &Server{
		addr:      cfg.Addr,
		store:     cfg.Store,
		pipe:      cfg.Pipeline,
		tg:        cfg.Tagger,
		index:     cfg.Index,
		writers:   cfg.Writers,
		watcher:   cfg.Watcher,
		maxUpload: maxUpload,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware())

	r.GET("/healthz", s.handleHealthz)

	api := r.Group("/api")
	{
		api.POST("/novels", s.handleProcessNovel)
		api.POST("/upload", s.handleUpload)
		api.GET("/sessions", s.handleListSessions)
		api.GET("/sessions/:key", s.handleGetSession)
		api.GET("/stats", s.handleStats)
		api.GET("/search", s.handleSearch)
	}

	return r
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
