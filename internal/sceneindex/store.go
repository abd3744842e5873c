package sceneindex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/veclite"
	"github.com/liushiyun/shuoshu/internal/pipeline"
)

// Collection name for scenes
const scenesCollection = "scenes"

// Config holds configuration for the Store.
type Config struct {
	// Path to the VecLite database file (e.g., "data/scenes.veclite").
	Path string

	// Embedder turns scene and query text into vectors. Required; the
	// collection dimension follows it.
	Embedder Embedder
}

// Store wraps VecLite for scene vector storage and search.
type Store struct {
	vecdb    *veclite.DB
	coll     *veclite.Collection
	embedder Embedder
}

// SearchResult is one scene returned from the index.
type SearchResult struct {
	ID         uint64
	Novel      string
	Chapter    int
	Ordinal    int
	Emotion    string
	Intensity  float64
	Characters string
	Text       string
	Similarity float32
}

// Open opens or creates the scene index at cfg.Path.
func Open(cfg Config) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("open scene index: embedder is required")
	}

	slog.Debug("opening scene index", "path", cfg.Path, "dimension", cfg.Embedder.Dimension())

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	// Get or create collection with HNSW index and text search
	coll, err := vecdb.CreateCollection(scenesCollection,
		veclite.WithDimension(cfg.Embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200), // M=16, efConstruction=200
		veclite.WithTextIndex("novel", "text", "characters", "emotion"),
	)
	if err != nil {
		// Collection might already exist, try to get it
		coll, err = vecdb.GetCollection(scenesCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	return &Store{
		vecdb:    vecdb,
		coll:     coll,
		embedder: cfg.Embedder,
	}, nil
}

// Close closes the VecLite database.
func (s *Store) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// IndexScene adds one scene to the index. Chapter is zero when the scene
// came from an unchaptered document. Returns the VecLite record ID.
func (s *Store) IndexScene(ctx context.Context, novel string, chapter, ordinal int, scene pipeline.Scene) (uint64, error) {
	embedding, err := s.embedder.Embed(ctx, scene.Text)
	if err != nil {
		return 0, fmt.Errorf("embed scene: %w", err)
	}

	payload := map[string]any{
		"novel":      novel,
		"chapter":    chapter,
		"scene":      ordinal,
		"emotion":    scene.Emotion,
		"intensity":  scene.EmotionIntensity,
		"characters": strings.Join(scene.Characters, " "),
		"text":       scene.Text,
	}

	id, err := s.coll.InsertDocument(embedding, scene.Text, payload)
	if err != nil {
		return 0, fmt.Errorf("insert scene: %w", err)
	}
	return id, nil
}

// IndexNovel indexes every scene of a structured novel and returns the
// number of scenes stored.
func (s *Store) IndexNovel(ctx context.Context, novel string, chapters []pipeline.ChapterScenes) (int, error) {
	indexed := 0
	for _, ch := range chapters {
		chapterNum := 0
		if ch.Chapter.Number != nil {
			chapterNum = *ch.Chapter.Number
		}

		for ordinal, scene := range ch.Scenes {
			select {
			case <-ctx.Done():
				return indexed, ctx.Err()
			default:
			}

			if _, err := s.IndexScene(ctx, novel, chapterNum, ordinal, scene); err != nil {
				return indexed, err
			}
			indexed++
		}
	}

	if err := s.vecdb.Sync(); err != nil {
		return indexed, fmt.Errorf("sync: %w", err)
	}
	return indexed, nil
}

// Search finds scenes similar to the query text.
func (s *Store) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return s.convertResults(results), nil
}

// SearchWithThreshold finds scenes above a similarity threshold.
func (s *Store) SearchWithThreshold(ctx context.Context, query string, threshold float32, maxResults int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec,
		veclite.TopK(maxResults),
		veclite.Threshold(threshold),
	)
	if err != nil {
		return nil, fmt.Errorf("search with threshold: %w", err)
	}
	return s.convertResults(results), nil
}

// SearchByNovel restricts search to scenes of one novel.
func (s *Store) SearchByNovel(ctx context.Context, query, novel string, k int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec,
		veclite.TopK(k),
		veclite.WithFilter(veclite.Equal("novel", novel)),
	)
	if err != nil {
		return nil, fmt.Errorf("search by novel: %w", err)
	}
	return s.convertResults(results), nil
}

// SearchByEmotion restricts search to scenes with the given polarity.
func (s *Store) SearchByEmotion(ctx context.Context, query, emotion string, k int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec,
		veclite.TopK(k),
		veclite.WithFilter(veclite.Equal("emotion", emotion)),
	)
	if err != nil {
		return nil, fmt.Errorf("search by emotion: %w", err)
	}
	return s.convertResults(results), nil
}

// HybridSearch combines vector and BM25 text search using RRF fusion.
func (s *Store) HybridSearch(ctx context.Context, query string, k int, vectorWeight, textWeight float64) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.HybridSearch(queryVec, query,
		veclite.TopK(k),
		veclite.WithVectorWeight(vectorWeight),
		veclite.WithTextWeight(textWeight),
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	return s.convertResults(results), nil
}

// Count returns the number of scenes in the index.
func (s *Store) Count() int {
	return s.coll.Count()
}

// Stats returns statistics about the scene index.
func (s *Store) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// Sync persists any pending changes to disk.
func (s *Store) Sync() error {
	return s.vecdb.Sync()
}

// convertResults converts VecLite results to SearchResults.
func (s *Store) convertResults(results []veclite.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		sr := SearchResult{
			ID:         r.Record.ID,
			Similarity: r.Score,
		}

		if r.Record.Payload != nil {
			if novel, ok := r.Record.Payload["novel"].(string); ok {
				sr.Novel = novel
			}
			sr.Chapter = payloadInt(r.Record.Payload["chapter"])
			sr.Ordinal = payloadInt(r.Record.Payload["scene"])
			if emotion, ok := r.Record.Payload["emotion"].(string); ok {
				sr.Emotion = emotion
			}
			if intensity, ok := r.Record.Payload["intensity"].(float64); ok {
				sr.Intensity = intensity
			}
			if characters, ok := r.Record.Payload["characters"].(string); ok {
				sr.Characters = characters
			}
			if text, ok := r.Record.Payload["text"].(string); ok {
				sr.Text = text
			}
		}

		// Fall back to Content field for text
		if sr.Text == "" && r.Record.Content != "" {
			sr.Text = r.Record.Content
		}

		out = append(out, sr)
	}
	return out
}

// payloadInt reads an integer payload value, tolerating the numeric types
// a JSON round-trip may produce.
func payloadInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
