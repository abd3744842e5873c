// Package sentiment scores text polarity by counting lexicon hits over
// tagger tokens.
package sentiment

import (
	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

// Polarity labels.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// intensityScale calibrates intensity to the share of emotion-bearing
// tokens, which rarely exceeds a third of a passage.
const intensityScale = 3.0

// Analyzer classifies text against the sentiment lexicons. The tagger is
// used purely for segmentation.
type Analyzer struct {
	lex *lexicon.Set
	tg  tagger.Tagger
}

// New creates an Analyzer.
func New(lex *lexicon.Set, tg tagger.Tagger) *Analyzer {
	return &Analyzer{lex: lex, tg: tg}
}

// Classify labels text positive, negative, or neutral by comparing
// positive and negative lexicon hit counts. Ties, including zero hits,
// are neutral.
func (a *Analyzer) Classify(text string) (string, error) {
	pos, neg, _, err := a.counts(text)
	if err != nil {
		return "", err
	}
	switch {
	case pos > neg:
		return Positive, nil
	case neg > pos:
		return Negative, nil
	default:
		return Neutral, nil
	}
}

// Intensity returns how emotionally loaded text is, in [0, 1]. Text with
// no tokens scores zero.
func (a *Analyzer) Intensity(text string) (float64, error) {
	pos, neg, total, err := a.counts(text)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return min(1.0, float64(pos+neg)/float64(total)*intensityScale), nil
}

func (a *Analyzer) counts(text string) (pos, neg, total int, err error) {
	tokens, err := a.tg.Tokenize(text)
	if err != nil {
		return 0, 0, 0, err
	}
	for _, token := range tokens {
		if a.lex.IsPositive(token) {
			pos++
		}
		if a.lex.IsNegative(token) {
			neg++
		}
	}
	return pos, neg, len(tokens), nil
}
