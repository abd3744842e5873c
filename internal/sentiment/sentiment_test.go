package sentiment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	tg := &tagger.Static{
		Words: []string{"高兴", "开心", "笑得", "悲伤", "难过", "句子"},
	}
	return New(lexicon.Default(), tg)
}

func TestAnalyzer_Classify(t *testing.T) {
	a := newAnalyzer(t)

	t.Run("positive", func(t *testing.T) {
		label, err := a.Classify("他很高兴，笑得很开心。")
		require.NoError(t, err)
		assert.Equal(t, Positive, label)
	})

	t.Run("negative", func(t *testing.T) {
		label, err := a.Classify("她十分悲伤，也很难过。")
		require.NoError(t, err)
		assert.Equal(t, Negative, label)
	})

	t.Run("tie is neutral", func(t *testing.T) {
		label, err := a.Classify("他很高兴也很悲伤。")
		require.NoError(t, err)
		assert.Equal(t, Neutral, label)
	})

	t.Run("no hits is neutral", func(t *testing.T) {
		label, err := a.Classify("这是一个句子。")
		require.NoError(t, err)
		assert.Equal(t, Neutral, label)
	})

	t.Run("empty text is neutral", func(t *testing.T) {
		label, err := a.Classify("")
		require.NoError(t, err)
		assert.Equal(t, Neutral, label)
	})

	t.Run("tagger failure propagates", func(t *testing.T) {
		broken := New(lexicon.Default(), tagger.Unavailable{})
		_, err := broken.Classify("文本")
		assert.True(t, errors.Is(err, tagger.ErrUnavailable))
	})
}

func TestAnalyzer_Intensity(t *testing.T) {
	a := newAnalyzer(t)

	t.Run("scales with emotion token share", func(t *testing.T) {
		// Tokens: 他 很 高兴 ， 笑得 很 开心 。 (2 hits of 8)
		intensity, err := a.Intensity("他很高兴，笑得很开心。")
		require.NoError(t, err)
		assert.InDelta(t, 0.75, intensity, 1e-9)
	})

	t.Run("caps at one", func(t *testing.T) {
		intensity, err := a.Intensity("高兴开心悲伤")
		require.NoError(t, err)
		assert.Equal(t, 1.0, intensity)
	})

	t.Run("empty text scores zero", func(t *testing.T) {
		intensity, err := a.Intensity("")
		require.NoError(t, err)
		assert.Equal(t, 0.0, intensity)
	})

	t.Run("stays in range", func(t *testing.T) {
		for _, text := range []string{"平静的湖面。", "他很开心。", "悲伤难过痛苦", ""} {
			intensity, err := a.Intensity(text)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, intensity, 0.0)
			assert.LessOrEqual(t, intensity, 1.0)
		}
	})

	t.Run("tagger failure propagates", func(t *testing.T) {
		broken := New(lexicon.Default(), tagger.Unavailable{})
		_, err := broken.Intensity("文本")
		assert.True(t, errors.Is(err, tagger.ErrUnavailable))
	})
}
