package tagger

import "unicode/utf8"

// Static is a deterministic Tagger backed by fixed vocabularies. Tests use
// it to pin down tokenization; it also serves as an offline fallback.
// Segmentation is greedy longest-match over the vocabulary; anything else
// becomes a single-rune token, punctuation included.
type Static struct {
	// Names are tokens tagged as person names.
	Names []string
	// Words are additional known tokens.
	Words []string
}

// Tokenize segments text greedily against the vocabulary.
func (s *Static) Tokenize(text string) ([]string, error) {
	var tokens []string
	for _, token := range s.segment(text) {
		tokens = append(tokens, token.Text)
	}
	return tokens, nil
}

// Tag segments text and marks vocabulary names with the person tag.
func (s *Static) Tag(text string) ([]Token, error) {
	return s.segment(text), nil
}

func (s *Static) segment(text string) []Token {
	names := make(map[string]bool, len(s.Names))
	maxLen := 0
	vocab := make(map[string]bool, len(s.Names)+len(s.Words))
	for _, name := range s.Names {
		names[name] = true
		vocab[name] = true
		if n := utf8.RuneCountInString(name); n > maxLen {
			maxLen = n
		}
	}
	for _, word := range s.Words {
		vocab[word] = true
		if n := utf8.RuneCountInString(word); n > maxLen {
			maxLen = n
		}
	}

	runes := []rune(text)
	var tokens []Token
	for i := 0; i < len(runes); {
		matched := 1
		for length := min(maxLen, len(runes)-i); length > 1; length-- {
			if vocab[string(runes[i:i+length])] {
				matched = length
				break
			}
		}

		tok := string(runes[i : i+matched])
		pos := "x"
		if names[tok] {
			pos = PersonTag
		} else if matched > 1 {
			pos = "n"
		}
		tokens = append(tokens, Token{Text: tok, Pos: pos})
		i += matched
	}
	return tokens
}
