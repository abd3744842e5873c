package sceneindex

import (
	"testing"

	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/segment"
	"github.com/stretchr/testify/assert"
)

func chapterScenes(num int, intensities ...float64) pipeline.ChapterScenes {
	scenes := make([]pipeline.Scene, len(intensities))
	for i, intensity := range intensities {
		scenes[i] = pipeline.Scene{
			Text:             "场景文本",
			Emotion:          "neutral",
			EmotionIntensity: intensity,
		}
	}
	return pipeline.ChapterScenes{
		Chapter: segment.Chapter{Title: "第1章", Number: &num},
		Scenes:  scenes,
	}
}

func TestHighlights(t *testing.T) {
	t.Run("ranks by intensity descending", func(t *testing.T) {
		chapters := []pipeline.ChapterScenes{
			chapterScenes(1, 0.2, 0.9, 0.5),
		}

		got := Highlights(chapters, HighlightConfig{K: 3})

		assert.Len(t, got, 3)
		assert.Equal(t, 0.9, got[0].Intensity)
		assert.Equal(t, 0.5, got[1].Intensity)
		assert.Equal(t, 0.2, got[2].Intensity)
	})

	t.Run("caps results at k", func(t *testing.T) {
		chapters := []pipeline.ChapterScenes{
			chapterScenes(1, 0.1, 0.2, 0.3, 0.4, 0.5),
		}

		got := Highlights(chapters, HighlightConfig{K: 2})

		assert.Len(t, got, 2)
		assert.Equal(t, 0.5, got[0].Intensity)
		assert.Equal(t, 0.4, got[1].Intensity)
	})

	t.Run("per-chapter cap spreads across chapters", func(t *testing.T) {
		chapters := []pipeline.ChapterScenes{
			chapterScenes(1, 0.9, 0.8, 0.7),
			chapterScenes(2, 0.3),
		}

		got := Highlights(chapters, HighlightConfig{K: 3, PerChapter: 2})

		assert.Len(t, got, 3)
		assert.Equal(t, 1, got[0].Chapter)
		assert.Equal(t, 1, got[1].Chapter)
		assert.Equal(t, 2, got[2].Chapter)
		assert.Equal(t, 0.3, got[2].Intensity)
	})

	t.Run("min intensity filters scenes", func(t *testing.T) {
		chapters := []pipeline.ChapterScenes{
			chapterScenes(1, 0.05, 0.6),
		}

		got := Highlights(chapters, HighlightConfig{K: 5, MinIntensity: 0.1})

		assert.Len(t, got, 1)
		assert.Equal(t, 0.6, got[0].Intensity)
	})

	t.Run("equal intensities keep document order", func(t *testing.T) {
		chapters := []pipeline.ChapterScenes{
			chapterScenes(1, 0.5, 0.5, 0.5),
		}

		got := Highlights(chapters, HighlightConfig{K: 3})

		assert.Equal(t, 0, got[0].Ordinal)
		assert.Equal(t, 1, got[1].Ordinal)
		assert.Equal(t, 2, got[2].Ordinal)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Highlights(nil, HighlightConfig{}))
	})

	t.Run("default k", func(t *testing.T) {
		chapters := []pipeline.ChapterScenes{
			chapterScenes(1, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7),
		}

		got := Highlights(chapters, HighlightConfig{})
		assert.Len(t, got, defaultHighlightCount)
	})
}

func TestExcerpt(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "你好", Excerpt("你好", 10))
	})

	t.Run("truncates at rune boundary", func(t *testing.T) {
		got := Excerpt("一二三四五六", 3)
		assert.Equal(t, "一二三…", got)
	})

	t.Run("exact length unchanged", func(t *testing.T) {
		assert.Equal(t, "一二三", Excerpt("一二三", 3))
	})
}
