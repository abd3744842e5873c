package sceneindex

import (
	"context"
	"math"
	"testing"

	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureVectorizer_Embed(t *testing.T) {
	v := NewFeatureVectorizer(lexicon.Default())
	ctx := context.Background()

	t.Run("fixed dimension", func(t *testing.T) {
		vec, err := v.Embed(ctx, "他走进房间，说：“你好。”")
		require.NoError(t, err)
		assert.Len(t, vec, v.Dimension())
	})

	t.Run("empty text yields zero vector", func(t *testing.T) {
		vec, err := v.Embed(ctx, "")
		require.NoError(t, err)

		for _, x := range vec {
			assert.Equal(t, float32(0), x)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "傍晚的江边，李明慢慢走着。他很高兴。"

		a, err := v.Embed(ctx, text)
		require.NoError(t, err)
		b, err := v.Embed(ctx, text)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("unit length for non-empty text", func(t *testing.T) {
		vec, err := v.Embed(ctx, "他走了过去，拿起桌上的杯子。")
		require.NoError(t, err)

		var length float64
		for _, x := range vec {
			length += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(length), 0.0001)
	})

	t.Run("different texts produce different vectors", func(t *testing.T) {
		a, err := v.Embed(ctx, "他很高兴，笑得很开心。")
		require.NoError(t, err)
		b, err := v.Embed(ctx, "战场上尸横遍野，他感到恐惧和绝望。")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("similar texts score higher than unrelated", func(t *testing.T) {
		base, err := v.Embed(ctx, "他很高兴，笑容灿烂，心里充满喜悦。")
		require.NoError(t, err)
		near, err := v.Embed(ctx, "她也很高兴，开心地笑了。")
		require.NoError(t, err)
		far, err := v.Embed(ctx, "深夜的古堡昏暗凄凉，他害怕得发抖。")
		require.NoError(t, err)

		assert.Greater(t, CosineSimilarity(base, near), CosineSimilarity(base, far))
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{1, 2, 3}
		assert.InDelta(t, 1.0, float64(CosineSimilarity(a, b)), 0.0001)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := []float32{1, 0, 0}
		b := []float32{0, 1, 0}
		assert.InDelta(t, 0.0, float64(CosineSimilarity(a, b)), 0.0001)
	})

	t.Run("different lengths", func(t *testing.T) {
		a := []float32{1, 2}
		b := []float32{1, 2, 3}
		assert.Equal(t, float32(0), CosineSimilarity(a, b))
	})

	t.Run("zero vector", func(t *testing.T) {
		a := []float32{0, 0, 0}
		b := []float32{1, 2, 3}
		assert.Equal(t, float32(0), CosineSimilarity(a, b))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("normalizes to unit length", func(t *testing.T) {
		normalized := Normalize([]float32{3, 4})

		var length float64
		for _, x := range normalized {
			length += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(length), 0.0001)
	})

	t.Run("zero vector unchanged", func(t *testing.T) {
		v := []float32{0, 0, 0}
		assert.Equal(t, v, Normalize(v))
	})
}

func BenchmarkFeatureVectorizer_Embed(b *testing.B) {
	v := NewFeatureVectorizer(lexicon.Default())
	ctx := context.Background()
	text := "傍晚时分，李明走在回家的路上。突然，天空下起了大雨。他跑到屋檐下躲雨，心里很着急。"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Embed(ctx, text)
	}
}
