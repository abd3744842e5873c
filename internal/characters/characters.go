// Package characters identifies person names in text and tracks them
// across scenes.
package characters

import (
	"sort"
	"strings"

	"github.com/liushiyun/shuoshu/internal/tagger"
	"github.com/liushiyun/shuoshu/internal/zhtext"
)

// Identify returns the distinct person names of text in order of first
// appearance. Accuracy is bounded by the tagger's dictionary; no
// correction logic is applied here.
func Identify(tg tagger.Tagger, text string) ([]string, error) {
	tokens, err := tg.Tag(text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, token := range tokens {
		if token.Pos != tagger.PersonTag || seen[token.Text] {
			continue
		}
		seen[token.Text] = true
		names = append(names, token.Text)
	}
	return names, nil
}

// stopChars are runes that disqualify a name candidate.
const stopChars = "的了是在有和就都不这那我你他她它们说道着与从向把被"

// Candidates scans text for recurring 2-4 rune Han substrings that look
// like names, for use when no tagger dictionary is available. A candidate
// must occur at least minCount times and contain no stop characters.
// Results come back in order of first occurrence, longest first when one
// candidate contains another with the same count.
func Candidates(text string, minCount int) []string {
	if minCount < 1 {
		minCount = 1
	}

	runes := []rune(text)
	counts := make(map[string]int)
	first := make(map[string]int)

	for i := 0; i < len(runes); i++ {
		if !zhtext.IsHan(runes[i]) {
			continue
		}
		for length := 2; length <= 4 && i+length <= len(runes); length++ {
			candidate := string(runes[i : i+length])
			if !zhtext.AllHan(candidate) || containsStopChar(candidate) {
				break
			}
			counts[candidate]++
			if _, ok := first[candidate]; !ok {
				first[candidate] = i
			}
		}
	}

	var ordered []string
	for candidate, count := range counts {
		if count >= minCount {
			ordered = append(ordered, candidate)
		}
	}
	// Order by first occurrence; longer candidate first on ties so a full
	// name beats its own prefix.
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if first[a] != first[b] {
			return first[a] < first[b]
		}
		return len(a) > len(b)
	})

	// Drop a candidate contained in an earlier, equally frequent one.
	var names []string
	for _, candidate := range ordered {
		absorbed := false
		for _, kept := range names {
			if strings.Contains(kept, candidate) && counts[kept] >= counts[candidate] {
				absorbed = true
				break
			}
		}
		if !absorbed {
			names = append(names, candidate)
		}
	}
	return names
}

func containsStopChar(s string) bool {
	return strings.ContainsAny(s, stopChars)
}
