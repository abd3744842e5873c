// Package tagger defines the tokenizer and part-of-speech boundary used by
// the character and sentiment components. Implementations must be pure
// functions of their input text.
package tagger

import "errors"

// ErrUnavailable reports that no working tagger backend is present. It is
// the only failure the analysis pipeline surfaces to callers.
var ErrUnavailable = errors.New("tagger unavailable")

// PersonTag is the part-of-speech tag marking proper person names.
const PersonTag = "nr"

// Token is a segmented token with its part-of-speech tag.
type Token struct {
	Text string
	Pos  string
}

// Tagger segments Chinese text into tokens and labels them with
// part-of-speech tags.
type Tagger interface {
	// Tokenize returns the token texts in order, punctuation included.
	Tokenize(text string) ([]string, error)
	// Tag returns tokens with part-of-speech tags in order.
	Tag(text string) ([]Token, error)
}

// Unavailable is a Tagger that always fails. It stands in when dictionary
// loading fails so the rest of the pipeline can keep running.
type Unavailable struct{}

func (Unavailable) Tokenize(string) ([]string, error) { return nil, ErrUnavailable }

func (Unavailable) Tag(string) ([]Token, error) { return nil, ErrUnavailable }
