// Package segment splits novel text into scenes and chapters. Scene
// boundaries come from paragraph structure and transition lexemes; chapter
// boundaries come from heading patterns tried in priority order.
package segment

import (
	"strings"

	"github.com/liushiyun/shuoshu/internal/lexicon"
)

// Options control segmentation behavior.
type Options struct {
	// StrictMarkers limits scene marker detection to paragraph starts.
	// The default also accepts a marker anywhere in the paragraph, which
	// favors recall of scene breaks over precision.
	StrictMarkers bool
}

// Splitter segments text using the shared lexicon.
type Splitter struct {
	lex  *lexicon.Set
	opts Options
}

// New creates a Splitter.
func New(lex *lexicon.Set, opts Options) *Splitter {
	return &Splitter{lex: lex, opts: opts}
}

// Scenes splits text into scene spans. Paragraphs come from blank-line
// boundaries, falling back to single line breaks when blank lines leave
// at most one paragraph. A paragraph carrying a scene marker starts a new scene
// unless the running scene is still empty. Whitespace-only input yields
// no scenes.
func (s *Splitter) Scenes(text string) []string {
	paragraphs := splitParagraphs(text)

	var scenes []string
	var current []string
	for _, para := range paragraphs {
		if s.marksScene(para) && len(current) > 0 {
			scenes = append(scenes, strings.Join(current, "\n"))
			current = []string{para}
			continue
		}
		current = append(current, para)
	}
	if len(current) > 0 {
		scenes = append(scenes, strings.Join(current, "\n"))
	}
	return scenes
}

// splitParagraphs cuts text on blank lines, or on every line break when
// at most one non-empty paragraph remains after trimming.
func splitParagraphs(text string) []string {
	paragraphs := trimNonEmpty(strings.Split(text, "\n\n"))
	if len(paragraphs) <= 1 {
		paragraphs = trimNonEmpty(strings.Split(text, "\n"))
	}
	return paragraphs
}

func trimNonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (s *Splitter) marksScene(para string) bool {
	for _, marker := range s.lex.SceneMarkers() {
		if s.opts.StrictMarkers {
			if strings.HasPrefix(para, marker) {
				return true
			}
			continue
		}
		if strings.Contains(para, marker) {
			return true
		}
	}
	return false
}
