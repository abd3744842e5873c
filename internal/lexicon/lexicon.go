// Package lexicon holds the word lists and compiled patterns shared by the
// text analysis components. A Set is immutable after construction and safe
// for concurrent use.
package lexicon

import (
	"fmt"
	"regexp"
	"strings"
)

// Chapter heading patterns, tried in priority order. The first family that
// matches anywhere in a document wins; families are never merged.
var chapterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`第[一二三四五六七八九十百千万\d]+[章回节].*`),
	regexp.MustCompile(`第[一二三四五六七八九十百千万\d]+卷.*`),
	regexp.MustCompile(`[一二三四五六七八九十百千万\d]+、.*`),
	regexp.MustCompile(`Chapter\s+\d+.*`),
	regexp.MustCompile(`Part\s+\d+.*`),
}

// Quotation delimiter patterns. Each is run independently over the full
// text; group 1 captures the quoted content.
var quotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[“”]([^“”]+)[“”]`),
	regexp.MustCompile(`[‘’]([^‘’]+)[‘’]`),
	regexp.MustCompile(`"([^"]+)"`),
	regexp.MustCompile(`'([^']+)'`),
}

// Set is the compiled, read-only lexicon store. Build one with Default or
// New and pass it by reference into every component.
type Set struct {
	sceneMarkers []string
	actionVerbs  []string
	positive     map[string]bool
	negative     map[string]bool
	descriptive  map[string]bool
	speechVerbs  []string
	attribution  *regexp.Regexp
}

// Default returns a Set compiled from the built-in word lists.
func Default() *Set {
	set, err := New(DefaultLists())
	if err != nil {
		// The built-in lists always compile.
		panic(err)
	}
	return set
}

// New compiles lists into a Set. It fails only if the speech verbs cannot
// form a valid attribution pattern.
func New(lists Lists) (*Set, error) {
	attribution, err := compileAttribution(lists.SpeechVerbs)
	if err != nil {
		return nil, err
	}

	return &Set{
		sceneMarkers: append([]string(nil), lists.SceneMarkers...),
		actionVerbs:  append([]string(nil), lists.ActionVerbs...),
		positive:     toSet(lists.Positive),
		negative:     toSet(lists.Negative),
		descriptive:  toSet(lists.Descriptive),
		speechVerbs:  append([]string(nil), lists.SpeechVerbs...),
		attribution:  attribution,
	}, nil
}

// compileAttribution builds the speaker attribution pattern: a 2-4 rune
// name candidate, a speech verb, an optional continuation particle and
// colon, anchored at the end of the lookbehind window.
func compileAttribution(verbs []string) (*regexp.Regexp, error) {
	if len(verbs) == 0 {
		return nil, fmt.Errorf("compile attribution pattern: no speech verbs")
	}

	quoted := make([]string, len(verbs))
	for i, verb := range verbs {
		quoted[i] = regexp.QuoteMeta(verb)
	}

	pattern := fmt.Sprintf(`([^，。！？；：\s]{2,4})(%s)(?:着)?[：:]?\s*$`, strings.Join(quoted, "|"))
	attribution, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile attribution pattern: %w", err)
	}
	return attribution, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

// SceneMarkers returns the scene transition lexemes in order.
func (s *Set) SceneMarkers() []string {
	return s.sceneMarkers
}

// ChapterPatterns returns the heading pattern families in priority order.
func (s *Set) ChapterPatterns() []*regexp.Regexp {
	return chapterPatterns
}

// QuotePatterns returns the quotation delimiter patterns.
func (s *Set) QuotePatterns() []*regexp.Regexp {
	return quotePatterns
}

// Attribution returns the compiled speaker attribution pattern.
func (s *Set) Attribution() *regexp.Regexp {
	return s.attribution
}

// SpeechVerbs returns the speech verbs in attribution priority order.
func (s *Set) SpeechVerbs() []string {
	return s.speechVerbs
}

// ContainsAction reports whether sentence contains any action verb.
func (s *Set) ContainsAction(sentence string) bool {
	for _, verb := range s.actionVerbs {
		if strings.Contains(sentence, verb) {
			return true
		}
	}
	return false
}

// IsPositive reports whether token is in the positive sentiment lexicon.
func (s *Set) IsPositive(token string) bool {
	return s.positive[token]
}

// IsNegative reports whether token is in the negative sentiment lexicon.
func (s *Set) IsNegative(token string) bool {
	return s.negative[token]
}

// IsDescriptive reports whether token is in the descriptive lexicon.
func (s *Set) IsDescriptive(token string) bool {
	return s.descriptive[token]
}

// DescriptiveHits counts tokens present in the descriptive lexicon.
func (s *Set) DescriptiveHits(tokens []string) int {
	hits := 0
	for _, token := range tokens {
		if s.descriptive[token] {
			hits++
		}
	}
	return hits
}

// CountActions sums occurrences of action verbs in text.
func (s *Set) CountActions(text string) int {
	count := 0
	for _, verb := range s.actionVerbs {
		count += strings.Count(text, verb)
	}
	return count
}

// CountPositive sums occurrences of positive lexemes in text.
func (s *Set) CountPositive(text string) int {
	count := 0
	for word := range s.positive {
		count += strings.Count(text, word)
	}
	return count
}

// CountNegative sums occurrences of negative lexemes in text.
func (s *Set) CountNegative(text string) int {
	count := 0
	for word := range s.negative {
		count += strings.Count(text, word)
	}
	return count
}

// CountDescriptive sums occurrences of descriptive lexemes in text.
func (s *Set) CountDescriptive(text string) int {
	count := 0
	for word := range s.descriptive {
		count += strings.Count(text, word)
	}
	return count
}
