// Package zhtext provides small helpers for working with Chinese prose:
// sentence splitting on CJK punctuation and rune-aware windowing.
package zhtext

import (
	"strings"
	"unicode"
)

// Sentence terminator sets used by the extractors. Clause-level splitting
// includes the semicolon; narrative splitting does not.
const (
	ClauseTerminators   = "。！？；"
	SentenceTerminators = "。！？"
	FullStop            = "。"
)

// SplitSentences splits text on any rune in terminators, trims each piece,
// and drops empty results. The terminator runes are not kept.
func SplitSentences(text, terminators string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(terminators, r)
	})

	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sentences = append(sentences, part)
	}
	return sentences
}

// LastRunes returns the suffix of s holding at most n runes.
func LastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// IsHan reports whether r is a Han character.
func IsHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// AllHan reports whether s is non-empty and consists only of Han characters.
func AllHan(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHan(r) {
			return false
		}
	}
	return true
}
