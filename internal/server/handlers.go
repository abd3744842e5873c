package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/liushiyun/shuoshu/internal/report"
	"github.com/liushiyun/shuoshu/internal/stats"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

type processNovelRequest struct {
	Title string `json:"title"`
	Text  string `json:"text" binding:"required"`
}

// handleProcessNovel structures a novel posted as JSON and records a
// session for it.
func (s *Server) handleProcessNovel(c *gin.Context) {
	var req processNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "未命名"
	}

	rep, ok := s.process(c, "api:"+c.ClientIP(), title, req.Text)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

// handleUpload structures a novel uploaded as a multipart text file.
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".txt" && ext != ".md" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .txt and .md files are supported"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open upload: " + err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read upload: " + err.Error()})
		return
	}

	title := strings.TrimSuffix(filepath.Base(header.Filename), ext)
	rep, ok := s.process(c, "upload:"+c.ClientIP(), title, string(data))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

// process runs the pipeline over text and records the session. It writes
// the error response itself and reports success through the bool.
func (s *Server) process(c *gin.Context, source, title, text string) (report.Report, bool) {
	ctx := c.Request.Context()

	chapters, err := s.pipe.ProcessChapters(text)
	if err != nil {
		if errors.Is(err, tagger.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tagger unavailable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return report.Report{}, false
	}

	rep := report.Build(title, chapters)
	t := rep.Tally

	// The same text processed twice keeps its original session.
	session, created, err := s.store.FindOrCreateSession(ctx, stats.CreateSessionParams{
		Source:         source,
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record session: " + err.Error()})
		return report.Report{}, false
	}
	rep.SessionKey = session.SessionKey
	if !created {
		return rep, true
	}

	if s.index != nil {
		if _, err := s.index.IndexNovel(ctx, title, chapters); err != nil {
			slog.Error("indexing failed", "title", title, "error", err)
		}
	}

	for _, writer := range s.writers {
		if _, err := writer.Write(rep); err != nil {
			slog.Error("report write failed", "format", writer.Format(), "error", err)
		}
	}

	return rep, true
}

// handleListSessions returns recent sessions, newest first.
func (s *Server) handleListSessions(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	sessions, err := s.store.ListSessions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []stats.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// handleGetSession returns one session by its key.
func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.store.GetSessionByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// handleStats returns totals across all sessions.
func (s *Server) handleStats(c *gin.Context) {
	ctx := c.Request.Context()

	totals, err := s.store.SessionTotals(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	files, err := s.store.CountIngestedFiles(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"totals":         totals,
		"ingested_files": files,
	}
	if s.index != nil {
		resp["indexed_scenes"] = s.index.Count()
	}
	c.JSON(http.StatusOK, resp)
}

// handleSearch queries the scene index.
func (s *Server) handleSearch(c *gin.Context) {
	if s.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scene index not configured"})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	k, err := strconv.Atoi(c.DefaultQuery("k", "10"))
	if err != nil || k <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid k"})
		return
	}

	var results any
	if novel := c.Query("novel"); novel != "" {
		results, err = s.index.SearchByNovel(c.Request.Context(), query, novel, k)
	} else {
		results, err = s.index.Search(c.Request.Context(), query, k)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// handleHealthz reports per-component health. It returns 503 as soon as
// any component is down so load balancers can react.
func (s *Server) handleHealthz(c *gin.Context) {
	ctx := c.Request.Context()
	components := gin.H{}
	healthy := true

	if _, err := s.tg.Tokenize("好"); err != nil {
		components["tagger"] = gin.H{"healthy": false, "error": err.Error()}
		healthy = false
	} else {
		components["tagger"] = gin.H{"healthy": true}
	}

	if err := s.store.PingContext(ctx); err != nil {
		components["database"] = gin.H{"healthy": false, "error": err.Error()}
		healthy = false
	} else {
		components["database"] = gin.H{"healthy": true}
	}

	if s.index != nil {
		components["index"] = gin.H{"healthy": true, "scenes": s.index.Count()}
	}

	if s.watcher != nil {
		watcherHealth := s.watcher.Health()
		components["watcher"] = watcherHealth.GetAllStatuses()
		if !watcherHealth.IsOverallHealthy() {
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"healthy":    healthy,
		"components": components,
	})
}
