package tagger

import (
	"fmt"

	"github.com/go-ego/gse"
)

// Gse adapts a gse segmenter to the Tagger interface.
type Gse struct {
	seg gse.Segmenter
}

// NewGse loads the given dictionary files into a gse-backed tagger. With no
// paths it loads the embedded default dictionary. Load failures wrap
// ErrUnavailable so callers can detect the degraded state.
func NewGse(dicts ...string) (*Gse, error) {
	t := &Gse{}

	var err error
	if len(dicts) == 0 {
		err = t.seg.LoadDict()
	} else {
		err = t.seg.LoadDict(dicts...)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load dictionaries: %v", ErrUnavailable, err)
	}
	return t, nil
}

// Tokenize segments text into tokens, punctuation included.
func (t *Gse) Tokenize(text string) ([]string, error) {
	return t.seg.Cut(text, true), nil
}

// Tag segments text and labels each token with its part-of-speech tag.
func (t *Gse) Tag(text string) ([]Token, error) {
	segs := t.seg.Pos(text, true)
	tokens := make([]Token, len(segs))
	for i, s := range segs {
		tokens[i] = Token{Text: s.Text, Pos: s.Pos}
	}
	return tokens, nil
}
