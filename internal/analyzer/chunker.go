package analyzer

import "strings"

// Chunk boundary runes, tried in priority order when a split point is
// needed: sentence end, line break, clause break, space.
var chunkBoundaries = []rune{'。', '\n', '，', ' '}

// Chunk is one contiguous span of novel text sized for a model call.
type Chunk struct {
	Text  string
	Index int
	Runes int
}

// ChunkerConfig holds configuration for the chunker.
type ChunkerConfig struct {
	// Target size for each chunk in runes.
	TargetRunes int
}

// DefaultChunkerConfig returns sensible defaults for chunking.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		TargetRunes: 2000,
	}
}

// Chunker splits novel text into model-sized chunks, breaking at natural
// boundaries so sentences stay intact.
type Chunker struct {
	config ChunkerConfig
}

// NewChunker creates a new chunker with the given config.
func NewChunker(config ChunkerConfig) *Chunker {
	if config.TargetRunes <= 0 {
		config.TargetRunes = DefaultChunkerConfig().TargetRunes
	}
	return &Chunker{config: config}
}

// Split cuts text into chunks of at most TargetRunes runes each. A chunk
// ends at the last boundary rune before the limit when one exists past
// the chunk start; otherwise it is cut hard at the limit. Blank input
// yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.config.TargetRunes {
		return []Chunk{{Text: text, Index: 0, Runes: len(runes)}}
	}

	var chunks []Chunk
	pos := 0
	for pos < len(runes) {
		end := min(pos+c.config.TargetRunes, len(runes))
		if end < len(runes) {
			if cut := lastBoundary(runes, pos, end); cut > pos {
				end = cut
			}
		}

		chunks = append(chunks, Chunk{
			Text:  string(runes[pos:end]),
			Index: len(chunks),
			Runes: end - pos,
		})
		pos = end
	}

	return chunks
}

// lastBoundary returns the index just past the last boundary rune in
// runes[start:end], trying boundary classes in priority order. A boundary
// at start does not count, so every chunk keeps at least one rune.
func lastBoundary(runes []rune, start, end int) int {
	for _, delim := range chunkBoundaries {
		for i := end - 1; i > start; i-- {
			if runes[i] == delim {
				return i + 1
			}
		}
	}
	return end
}
