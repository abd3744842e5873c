// Package narrative separates prose into action sentences and scene
// description using the action-verb lexicon.
package narrative

import (
	"strings"

	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/zhtext"
)

// Extractor classifies sentences against the lexicon.
type Extractor struct {
	lex *lexicon.Set
}

// New creates an Extractor.
func New(lex *lexicon.Set) *Extractor {
	return &Extractor{lex: lex}
}

// Actions returns the sentences of text containing at least one action
// verb, in order. A sentence with several action verbs appears once;
// repeated identical sentences are kept.
func (e *Extractor) Actions(text string) []string {
	var actions []string
	for _, sentence := range zhtext.SplitSentences(text, zhtext.ClauseTerminators) {
		if e.lex.ContainsAction(sentence) {
			actions = append(actions, sentence)
		}
	}
	return actions
}

// Description strips dialogue spans from text and returns the remaining
// non-action sentences joined with full stops. The result carries a
// trailing full stop only when at least one sentence was kept.
func (e *Extractor) Description(text string) string {
	clean := text
	for _, pattern := range e.lex.QuotePatterns() {
		clean = pattern.ReplaceAllString(clean, "")
	}

	var kept []string
	for _, sentence := range zhtext.SplitSentences(clean, zhtext.SentenceTerminators) {
		if !e.lex.ContainsAction(sentence) {
			kept = append(kept, sentence)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, zhtext.FullStop) + zhtext.FullStop
}
