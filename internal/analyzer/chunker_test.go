package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Split(t *testing.T) {
	t.Run("blank input returns nothing", func(t *testing.T) {
		chunker := NewChunker(DefaultChunkerConfig())
		assert.Empty(t, chunker.Split(""))
		assert.Empty(t, chunker.Split("  \n\t "))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		text := "他走了。她也走了。"
		chunker := NewChunker(DefaultChunkerConfig())

		chunks := chunker.Split(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0].Text)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, utf8.RuneCountInString(text), chunks[0].Runes)
	})

	t.Run("breaks after sentence terminator", func(t *testing.T) {
		text := "一二三四五六七。八九十一二三四。"
		chunker := NewChunker(ChunkerConfig{TargetRunes: 10})

		chunks := chunker.Split(text)
		require.Len(t, chunks, 2)
		assert.Equal(t, "一二三四五六七。", chunks[0].Text)
		assert.Equal(t, "八九十一二三四。", chunks[1].Text)
	})

	t.Run("full stop beats later comma", func(t *testing.T) {
		text := "一二。三四，五六七八九十一二三四五六"
		chunker := NewChunker(ChunkerConfig{TargetRunes: 10})

		chunks := chunker.Split(text)
		require.NotEmpty(t, chunks)
		assert.Equal(t, "一二。", chunks[0].Text)
	})

	t.Run("falls back to comma", func(t *testing.T) {
		text := "一二，三四五六七八九十一二"
		chunker := NewChunker(ChunkerConfig{TargetRunes: 10})

		chunks := chunker.Split(text)
		require.NotEmpty(t, chunks)
		assert.Equal(t, "一二，", chunks[0].Text)
	})

	t.Run("hard cut when no boundary", func(t *testing.T) {
		text := "一二三四五六七八九十一二三"
		chunker := NewChunker(ChunkerConfig{TargetRunes: 10})

		chunks := chunker.Split(text)
		require.Len(t, chunks, 2)
		assert.Equal(t, 10, chunks[0].Runes)
		assert.Equal(t, 3, chunks[1].Runes)
	})

	t.Run("boundary at chunk start does not count", func(t *testing.T) {
		text := "。一二三四五六七八九十一"
		chunker := NewChunker(ChunkerConfig{TargetRunes: 10})

		chunks := chunker.Split(text)
		require.Len(t, chunks, 2)
		assert.Equal(t, 10, chunks[0].Runes)
	})

	t.Run("chunks reassemble to the original text", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 50; i++ {
			sb.WriteString("李明看着窗外，天色渐暗。\n他想起了很多往事，一时说不出话。")
		}
		text := sb.String()

		chunker := NewChunker(ChunkerConfig{TargetRunes: 100})
		chunks := chunker.Split(text)
		require.Greater(t, len(chunks), 1)

		var joined strings.Builder
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.Index)
			assert.Equal(t, utf8.RuneCountInString(chunk.Text), chunk.Runes)
			assert.LessOrEqual(t, chunk.Runes, 100)
			joined.WriteString(chunk.Text)
		}
		assert.Equal(t, text, joined.String())
	})
}

func TestDefaultChunkerConfig(t *testing.T) {
	cfg := DefaultChunkerConfig()
	assert.Equal(t, 2000, cfg.TargetRunes)
}
