package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"
)

const sessionColumns = `id, session_key, source, content_hash, chapter_count, scene_count,
	dialogue_count, character_count, action_count, positive_scenes, negative_scenes,
	neutral_scenes, avg_intensity, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var s Session
	err := row.Scan(
		&s.ID,
		&s.SessionKey,
		&s.Source,
		&s.ContentHash,
		&s.ChapterCount,
		&s.SceneCount,
		&s.DialogueCount,
		&s.CharacterCount,
		&s.ActionCount,
		&s.PositiveScenes,
		&s.NegativeScenes,
		&s.NeutralScenes,
		&s.AvgIntensity,
		&s.CreatedAt,
	)
	return s, err
}

// CreateSessionParams holds the inserted columns for a new session.
type CreateSessionParams struct {
	SessionKey     string
	Source         string
	ContentHash    string
	ChapterCount   int64
	SceneCount     int64
	DialogueCount  int64
	CharacterCount int64
	ActionCount    int64
	PositiveScenes int64
	NegativeScenes int64
	NeutralScenes  int64
	AvgIntensity   float64
}

// CreateSession inserts a session row. A session key is generated when the
// caller leaves it empty.
func (s *Store) CreateSession(ctx context.Context, params CreateSessionParams) (Session, error) {
	if params.SessionKey == "" {
		params.SessionKey = ksuid.New().String()
	}

	row := s.QueryRowContext(ctx, `
		INSERT INTO sessions (
			session_key, source, content_hash, chapter_count, scene_count,
			dialogue_count, character_count, action_count, positive_scenes,
			negative_scenes, neutral_scenes, avg_intensity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+sessionColumns,
		params.SessionKey,
		params.Source,
		params.ContentHash,
		params.ChapterCount,
		params.SceneCount,
		params.DialogueCount,
		params.CharacterCount,
		params.ActionCount,
		params.PositiveScenes,
		params.NegativeScenes,
		params.NeutralScenes,
		params.AvgIntensity,
	)

	session, err := scanSession(row)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// FindOrCreateSession returns the session already recorded for the params'
// content hash, inserting a new row when none exists. created reports
// whether the insert happened. Losing an insert race to a concurrent
// writer with the same hash resolves to the winner's row.
func (s *Store) FindOrCreateSession(ctx context.Context, params CreateSessionParams) (Session, bool, error) {
	session, err := s.GetSessionByHash(ctx, params.ContentHash)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, fmt.Errorf("find session: %w", err)
	}

	session, err = s.CreateSession(ctx, params)
	if err == nil {
		return session, true, nil
	}
	if existing, getErr := s.GetSessionByHash(ctx, params.ContentHash); getErr == nil {
		return existing, false, nil
	}
	return Session{}, false, err
}

// GetSessionByKey fetches a session by its public key.
func (s *Store) GetSessionByKey(ctx context.Context, key string) (Session, error) {
	row := s.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE session_key = ?", key)
	return scanSession(row)
}

// GetSessionByHash fetches a session by content hash, used to skip inputs
// that were already processed.
func (s *Store) GetSessionByHash(ctx context.Context, contentHash string) (Session, error) {
	row := s.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE content_hash = ?", contentHash)
	return scanSession(row)
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, limit int64) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// CountSessions returns the total number of sessions.
func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}

// SessionTotals aggregates counts across all sessions.
func (s *Store) SessionTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(chapter_count), 0),
			COALESCE(SUM(scene_count), 0),
			COALESCE(SUM(dialogue_count), 0),
			COALESCE(SUM(character_count), 0),
			COALESCE(SUM(action_count), 0),
			COALESCE(SUM(positive_scenes), 0),
			COALESCE(SUM(negative_scenes), 0),
			COALESCE(SUM(neutral_scenes), 0),
			COALESCE(AVG(avg_intensity), 0)
		FROM sessions
	`).Scan(
		&t.Sessions,
		&t.Chapters,
		&t.Scenes,
		&t.Dialogues,
		&t.Characters,
		&t.Actions,
		&t.PositiveScenes,
		&t.NegativeScenes,
		&t.NeutralScenes,
		&t.AvgIntensity,
	)
	if err != nil {
		return Totals{}, fmt.Errorf("session totals: %w", err)
	}
	return t, nil
}

// CreateIngestedFileParams holds the inserted columns for a watched file.
type CreateIngestedFileParams struct {
	Path        string
	ContentHash string
	SizeBytes   int64
	SessionID   sql.NullInt64
}

// CreateIngestedFile records a file so the watcher does not process it again.
func (s *Store) CreateIngestedFile(ctx context.Context, params CreateIngestedFileParams) (IngestedFile, error) {
	row := s.QueryRowContext(ctx, `
		INSERT INTO ingested_files (path, content_hash, size_bytes, session_id)
		VALUES (?, ?, ?, ?)
		RETURNING id, path, content_hash, size_bytes, session_id, ingested_at`,
		params.Path,
		params.ContentHash,
		params.SizeBytes,
		params.SessionID,
	)

	var f IngestedFile
	err := row.Scan(&f.ID, &f.Path, &f.ContentHash, &f.SizeBytes, &f.SessionID, &f.IngestedAt)
	if err != nil {
		return IngestedFile{}, fmt.Errorf("create ingested file: %w", err)
	}
	return f, nil
}

// FileIngested reports whether a file with the given content hash was
// already processed.
func (s *Store) FileIngested(ctx context.Context, contentHash string) (bool, error) {
	var exists bool
	err := s.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM ingested_files WHERE content_hash = ?)", contentHash).Scan(&exists)
	return exists, err
}

// CountIngestedFiles returns the total number of recorded files.
func (s *Store) CountIngestedFiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingested_files").Scan(&count)
	return count, err
}

// GetConfig returns a runtime configuration value.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.QueryRowContext(ctx, "SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	return value, err
}

// SetConfig upserts a runtime configuration value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO app_config (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}
