package stats

import (
	"database/sql"
	"time"
)

// Session records one structuring run over a novel.
type Session struct {
	ID             int64     `json:"id"`
	SessionKey     string    `json:"session_key"`
	Source         string    `json:"source"`
	ContentHash    string    `json:"content_hash"`
	ChapterCount   int64     `json:"chapter_count"`
	SceneCount     int64     `json:"scene_count"`
	DialogueCount  int64     `json:"dialogue_count"`
	CharacterCount int64     `json:"character_count"`
	ActionCount    int64     `json:"action_count"`
	PositiveScenes int64     `json:"positive_scenes"`
	NegativeScenes int64     `json:"negative_scenes"`
	NeutralScenes  int64     `json:"neutral_scenes"`
	AvgIntensity   float64   `json:"avg_intensity"`
	CreatedAt      time.Time `json:"created_at"`
}

// IngestedFile records a file the watcher has already processed.
type IngestedFile struct {
	ID          int64         `json:"id"`
	Path        string        `json:"path"`
	ContentHash string        `json:"content_hash"`
	SizeBytes   int64         `json:"size_bytes"`
	SessionID   sql.NullInt64 `json:"session_id"`
	IngestedAt  time.Time     `json:"ingested_at"`
}

// Totals aggregates counts across all sessions.
type Totals struct {
	Sessions       int64   `json:"sessions"`
	Chapters       int64   `json:"chapters"`
	Scenes         int64   `json:"scenes"`
	Dialogues      int64   `json:"dialogues"`
	Characters     int64   `json:"characters"`
	Actions        int64   `json:"actions"`
	PositiveScenes int64   `json:"positive_scenes"`
	NegativeScenes int64   `json:"negative_scenes"`
	NeutralScenes  int64   `json:"neutral_scenes"`
	AvgIntensity   float64 `json:"avg_intensity"`
}
