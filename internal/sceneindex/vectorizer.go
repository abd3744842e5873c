// Package sceneindex stores scene vectors in VecLite and retrieves
// similar scenes by vector, text, and hybrid search.
package sceneindex

import (
	"context"
	"hash/fnv"
	"math"
	"unicode/utf8"

	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/zhtext"
)

// Embedder turns scene text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

const (
	featureDimension = 32

	// Leading slots carry lexicon statistics, the rest hashed bigrams.
	featureSlots = 8
)

// FeatureVectorizer builds deterministic lexicon-feature vectors. It needs
// no network or model and is the default embedding provider.
type FeatureVectorizer struct {
	lex *lexicon.Set
}

// NewFeatureVectorizer creates a vectorizer over the given lexicon.
func NewFeatureVectorizer(lex *lexicon.Set) *FeatureVectorizer {
	return &FeatureVectorizer{lex: lex}
}

// Dimension returns the vector width.
func (v *FeatureVectorizer) Dimension() int {
	return featureDimension
}

// Embed builds a unit-length feature vector for text.
func (v *FeatureVectorizer) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, featureDimension)
	if text == "" {
		return vec, nil
	}

	runes := utf8.RuneCountInString(text)
	vec[0] = capped(float64(runes) / 2000)
	vec[1] = capped(float64(v.quoteCount(text)) / 10)
	vec[2] = capped(float64(len(zhtext.SplitSentences(text, zhtext.ClauseTerminators))) / 20)
	vec[3] = capped(float64(v.lex.CountActions(text)) / 10)
	vec[4] = capped(float64(v.lex.CountPositive(text)) / 10)
	vec[5] = capped(float64(v.lex.CountNegative(text)) / 10)
	vec[6] = capped(float64(v.lex.CountDescriptive(text)) / 10)
	vec[7] = capped(float64(runes) / 200)

	hashBigrams(text, vec[featureSlots:])

	return Normalize(vec), nil
}

func (v *FeatureVectorizer) quoteCount(text string) int {
	count := 0
	for _, p := range v.lex.QuotePatterns() {
		count += len(p.FindAllStringIndex(text, -1))
	}
	return count
}

// hashBigrams distributes Han bigram counts over the bucket slots.
func hashBigrams(text string, buckets []float32) {
	var prev rune
	total := 0
	for _, r := range text {
		if !zhtext.IsHan(r) {
			prev = 0
			continue
		}
		if prev != 0 {
			h := fnv.New32a()
			h.Write([]byte(string([]rune{prev, r})))
			buckets[h.Sum32()%uint32(len(buckets))]++
			total++
		}
		prev = r
	}

	if total == 0 {
		return
	}
	for i := range buckets {
		buckets[i] /= float32(total)
	}
}

func capped(v float64) float32 {
	return float32(math.Min(v, 1.0))
}

// Normalize scales a vector to unit length. Zero vectors pass through.
func Normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// CosineSimilarity computes the cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
