// Package dialogue extracts quoted speech and attributes it to speakers
// found in the text immediately before each quote.
package dialogue

import (
	"encoding/json"
	"sort"

	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/zhtext"
)

// attributionWindow is the number of runes inspected before a quote when
// looking for a speaker.
const attributionWindow = 20

// Dialogue is one quoted utterance. Speaker is empty and Attributed false
// when no speaker could be recovered.
type Dialogue struct {
	Speaker    string
	Attributed bool
	Text       string
}

// MarshalJSON emits the speaker as null when none was recovered, keeping
// the no-speaker case distinct from an empty name.
func (d Dialogue) MarshalJSON() ([]byte, error) {
	type wire struct {
		Speaker *string `json:"speaker"`
		Text    string  `json:"text"`
	}
	w := wire{Text: d.Text}
	if d.Attributed {
		w.Speaker = &d.Speaker
	}
	return json.Marshal(w)
}

// Options control extraction behavior.
type Options struct {
	// DedupeSpans drops a match whose span overlaps one already accepted.
	// Off by default: every quote pattern contributes its own record,
	// including quotes nested inside another style's span.
	DedupeSpans bool
}

// Extractor finds dialogues using the lexicon's quote patterns.
type Extractor struct {
	lex  *lexicon.Set
	opts Options
}

// New creates an Extractor.
func New(lex *lexicon.Set, opts Options) *Extractor {
	return &Extractor{lex: lex, opts: opts}
}

type span struct {
	start, end int
	inner      string
}

// Extract returns the dialogues of text ordered by opening delimiter
// position. Each quote pattern runs independently over the whole text and
// the matches are merged; ties keep pattern priority order.
func (e *Extractor) Extract(text string) []Dialogue {
	var matches []span
	for _, pattern := range e.lex.QuotePatterns() {
		for _, idx := range pattern.FindAllStringSubmatchIndex(text, -1) {
			matches = append(matches, span{start: idx[0], end: idx[1], inner: text[idx[2]:idx[3]]})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	if e.opts.DedupeSpans {
		matches = dropOverlaps(matches)
	}

	dialogues := make([]Dialogue, 0, len(matches))
	for _, m := range matches {
		d := Dialogue{Text: m.inner}
		if name, ok := e.speakerBefore(text, m.start); ok {
			d.Speaker = name
			d.Attributed = true
		}
		dialogues = append(dialogues, d)
	}
	return dialogues
}

// speakerBefore looks for an attribution pattern at the end of the window
// preceding the quote.
func (e *Extractor) speakerBefore(text string, start int) (string, bool) {
	window := zhtext.LastRunes(text[:start], attributionWindow)
	m := e.lex.Attribution().FindStringSubmatch(window)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// dropOverlaps keeps the first match of each overlapping run. Input must
// be sorted by start.
func dropOverlaps(matches []span) []span {
	kept := matches[:0]
	lastEnd := -1
	for _, m := range matches {
		if m.start < lastEnd {
			continue
		}
		kept = append(kept, m)
		if m.end > lastEnd {
			lastEnd = m.end
		}
	}
	return kept
}
