package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ChunkAnalysis is the structured result for one chunk of text.
type ChunkAnalysis struct {
	Theme        string             `json:"theme" jsonschema_description:"Theme of this section of the novel"`
	Summary      string             `json:"summary" jsonschema_description:"Two to three sentence summary of this section"`
	Characters   []CharacterProfile `json:"characters" jsonschema_description:"Characters appearing in this section"`
	Scenes       []SceneSketch      `json:"scenes" jsonschema_description:"Scenes occurring in this section, in order"`
	EmotionalArc string             `json:"emotional_arc" jsonschema_description:"Overall emotional direction of this section"`
}

// CharacterProfile describes a character as seen in the analyzed text.
type CharacterProfile struct {
	Name        string `json:"name" jsonschema_description:"Character name as used in the text"`
	Role        string `json:"role" jsonschema_description:"Narrative role, e.g. protagonist, supporting, antagonist"`
	Appearance  string `json:"appearance" jsonschema_description:"Physical description; empty when the text gives none"`
	Personality string `json:"personality" jsonschema_description:"Personality traits; empty when the text gives none"`
}

// SceneSketch is a model-extracted scene outline.
type SceneSketch struct {
	Description string   `json:"description" jsonschema_description:"What happens in the scene"`
	Location    string   `json:"location" jsonschema_description:"Where the scene takes place"`
	Time        string   `json:"time" jsonschema_description:"When the scene takes place"`
	Mood        string   `json:"mood" jsonschema_description:"Mood of the scene, e.g. tense, calm, joyful"`
	Characters  []string `json:"characters" jsonschema_description:"Names of characters present"`
}

// Analysis is the merged whole-novel analysis.
type Analysis struct {
	Title        string             `json:"title"`
	Theme        string             `json:"theme"`
	Summary      string             `json:"summary"`
	Characters   []CharacterProfile `json:"characters"`
	Scenes       []SceneSketch      `json:"scenes"`
	EmotionalArc string             `json:"emotional_arc"`
	Chunks       int                `json:"chunks"`
}

// completer abstracts the completion client for testing.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Analyzer runs model-based analysis over a novel, chunk by chunk.
type Analyzer struct {
	client  completer
	chunker *Chunker
}

// Config holds configuration for the analyzer.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// ChunkRunes overrides the chunker target size when > 0.
	ChunkRunes int
}

// New creates a new Analyzer.
func New(cfg Config) *Analyzer {
	chunkerCfg := DefaultChunkerConfig()
	if cfg.ChunkRunes > 0 {
		chunkerCfg.TargetRunes = cfg.ChunkRunes
	}

	return &Analyzer{
		client: NewClient(ClientConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}),
		chunker: NewChunker(chunkerCfg),
	}
}

// AnalyzeNovel analyzes the full text in chunks and merges the results.
// Chunks that fail to analyze are skipped; an error is returned only
// when every chunk fails.
func (a *Analyzer) AnalyzeNovel(ctx context.Context, title, text string) (*Analysis, error) {
	chunks := a.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, errors.New("empty text")
	}

	var parts []ChunkAnalysis
	var lastErr error
	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		slog.Info("analyzing chunk",
			"title", title,
			"chunk", chunk.Index+1,
			"total", len(chunks),
			"runes", chunk.Runes,
		)

		part, err := a.analyzeChunk(ctx, title, chunk.Text)
		if err != nil {
			slog.Error("chunk analysis failed",
				"title", title,
				"chunk", chunk.Index+1,
				"error", err,
			)
			lastErr = err
			continue
		}
		parts = append(parts, *part)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("all %d chunks failed: %w", len(chunks), lastErr)
	}

	analysis := mergeAnalyses(parts)
	analysis.Title = title
	analysis.Chunks = len(chunks)
	return analysis, nil
}

func (a *Analyzer) analyzeChunk(ctx context.Context, title, text string) (*ChunkAnalysis, error) {
	prompt := fmt.Sprintf(AnalysisPrompt, title, text)

	response, err := a.client.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	return parseChunkAnalysis(response)
}

// parseChunkAnalysis parses a model response into a ChunkAnalysis.
// Markdown code fences are stripped first; if the remainder still is
// not valid JSON, the outermost object is extracted and parsed.
func parseChunkAnalysis(response string) (*ChunkAnalysis, error) {
	content := stripCodeFence(response)

	var analysis ChunkAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err == nil {
		return &analysis, nil
	}

	extracted, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(extracted), &analysis); err != nil {
		return nil, fmt.Errorf("parse extracted JSON: %w", err)
	}
	return &analysis, nil
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONObject finds the outermost JSON object in a response that
// may contain surrounding prose.
func extractJSONObject(response string) (string, error) {
	start := strings.IndexByte(response, '{')
	if start == -1 {
		return "", errors.New("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1], nil
			}
		}
	}

	return "", errors.New("malformed JSON object in response")
}

// mergeAnalyses combines per-chunk analyses into a single view. The
// first non-empty theme wins, summaries concatenate, scenes keep
// chunk order, characters dedupe by name with later non-empty detail
// fields replacing earlier ones, and the most frequent arc wins.
func mergeAnalyses(parts []ChunkAnalysis) *Analysis {
	merged := &Analysis{}

	var summaries []string
	byName := make(map[string]int)
	arcVotes := make(map[string]int)
	var arcOrder []string

	for _, part := range parts {
		if merged.Theme == "" {
			merged.Theme = part.Theme
		}
		if part.Summary != "" {
			summaries = append(summaries, part.Summary)
		}
		merged.Scenes = append(merged.Scenes, part.Scenes...)

		for _, ch := range part.Characters {
			if ch.Name == "" {
				continue
			}
			idx, seen := byName[ch.Name]
			if !seen {
				byName[ch.Name] = len(merged.Characters)
				merged.Characters = append(merged.Characters, ch)
				continue
			}
			existing := &merged.Characters[idx]
			if ch.Role != "" {
				existing.Role = ch.Role
			}
			if ch.Appearance != "" {
				existing.Appearance = ch.Appearance
			}
			if ch.Personality != "" {
				existing.Personality = ch.Personality
			}
		}

		if part.EmotionalArc != "" {
			if arcVotes[part.EmotionalArc] == 0 {
				arcOrder = append(arcOrder, part.EmotionalArc)
			}
			arcVotes[part.EmotionalArc]++
		}
	}

	merged.Summary = strings.Join(summaries, "\n")
	for _, arc := range arcOrder {
		if arcVotes[arc] > arcVotes[merged.EmotionalArc] {
			merged.EmotionalArc = arc
		}
	}

	return merged
}
