package sceneindex

import (
	"sort"

	"github.com/liushiyun/shuoshu/internal/pipeline"
)

const (
	defaultHighlightCount = 5

	// excerptRunes caps the preview text carried by a highlight.
	excerptRunes = 80
)

// Highlight is one emotionally intense scene chosen as a preview of the
// novel's arc.
type Highlight struct {
	Chapter   int     `json:"chapter"`
	Ordinal   int     `json:"scene"`
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
	Excerpt   string  `json:"excerpt"`
}

// HighlightConfig bounds highlight selection.
type HighlightConfig struct {
	// K is the number of highlights to return (default: 5).
	K int
	// PerChapter caps highlights taken from a single chapter so one
	// dramatic chapter cannot crowd out the rest (0 = no cap).
	PerChapter int
	// MinIntensity drops scenes below this intensity (default: 0,
	// keeping even quiet scenes when nothing better exists).
	MinIntensity float64
}

// Highlights ranks scenes by emotion intensity (descending) and returns
// the top K, taking at most PerChapter scenes from any one chapter.
// Scenes tie-break on document order, so output is deterministic.
func Highlights(chapters []pipeline.ChapterScenes, cfg HighlightConfig) []Highlight {
	k := cfg.K
	if k <= 0 {
		k = defaultHighlightCount
	}

	type candidate struct {
		chapterIdx int
		Highlight
	}

	var candidates []candidate
	for chapterIdx, ch := range chapters {
		chapterNum := 0
		if ch.Chapter.Number != nil {
			chapterNum = *ch.Chapter.Number
		}

		for ordinal, scene := range ch.Scenes {
			if scene.EmotionIntensity < cfg.MinIntensity {
				continue
			}
			candidates = append(candidates, candidate{
				chapterIdx: chapterIdx,
				Highlight: Highlight{
					Chapter:   chapterNum,
					Ordinal:   ordinal,
					Emotion:   scene.Emotion,
					Intensity: scene.EmotionIntensity,
					Excerpt:   Excerpt(scene.Text, excerptRunes),
				},
			})
		}
	}

	// Sort by intensity (descending), stable so equal scenes keep
	// document order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Intensity > candidates[j].Intensity
	})

	taken := make(map[int]int)
	out := make([]Highlight, 0, k)
	for _, c := range candidates {
		if len(out) >= k {
			break
		}
		if cfg.PerChapter > 0 && taken[c.chapterIdx] >= cfg.PerChapter {
			continue
		}
		taken[c.chapterIdx]++
		out = append(out, c.Highlight)
	}

	return out
}

// Excerpt returns the first n runes of text, appending an ellipsis when
// the text was cut.
func Excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
