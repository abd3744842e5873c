// Package pipeline wires segmentation and the per-scene extractors into
// the novel structuring entry points.
package pipeline

import (
	"runtime"
	"sync"

	"github.com/liushiyun/shuoshu/internal/characters"
	"github.com/liushiyun/shuoshu/internal/dialogue"
	"github.com/liushiyun/shuoshu/internal/lexicon"
	"github.com/liushiyun/shuoshu/internal/narrative"
	"github.com/liushiyun/shuoshu/internal/segment"
	"github.com/liushiyun/shuoshu/internal/sentiment"
	"github.com/liushiyun/shuoshu/internal/tagger"
)

// Scene is one structured scene.
type Scene struct {
	Text             string              `json:"text"`
	Description      string              `json:"description"`
	Characters       []string            `json:"characters"`
	Dialogues        []dialogue.Dialogue `json:"dialogues"`
	Actions          []string            `json:"actions"`
	Emotion          string              `json:"emotion"`
	EmotionIntensity float64             `json:"emotion_intensity"`
}

// ChapterScenes pairs a chapter with its structured scenes.
type ChapterScenes struct {
	Chapter segment.Chapter `json:"chapter"`
	Scenes  []Scene         `json:"scenes"`
}

// Config holds pipeline construction options.
type Config struct {
	// Lexicon defaults to the built-in word lists when nil.
	Lexicon *lexicon.Set
	// Tagger backs character identification and sentiment scoring.
	Tagger tagger.Tagger
	// Workers bounds per-scene extraction concurrency. Zero or less
	// means one worker per CPU.
	Workers  int
	Segment  segment.Options
	Dialogue dialogue.Options
}

// Pipeline runs the whole text structuring flow. It holds no mutable
// state and is safe for concurrent use.
type Pipeline struct {
	splitter  *segment.Splitter
	dialogues *dialogue.Extractor
	narrative *narrative.Extractor
	sentiment *sentiment.Analyzer
	tg        tagger.Tagger
	workers   int
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	lex := cfg.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	tg := cfg.Tagger
	if tg == nil {
		tg = tagger.Unavailable{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pipeline{
		splitter:  segment.New(lex, cfg.Segment),
		dialogues: dialogue.New(lex, cfg.Dialogue),
		narrative: narrative.New(lex),
		sentiment: sentiment.New(lex, tg),
		tg:        tg,
		workers:   workers,
	}
}

// Scenes splits text into scene spans without extracting features.
func (p *Pipeline) Scenes(text string) []string {
	return p.splitter.Scenes(text)
}

// ParseChapters splits text into chapter records.
func (p *Pipeline) ParseChapters(text string) []segment.Chapter {
	return p.splitter.Chapters(text)
}

// ProcessNovel splits text into scenes and extracts features from each.
// Results keep scene order regardless of worker scheduling. Blank input
// yields no scenes. The only error is a failing tagger.
func (p *Pipeline) ProcessNovel(text string) ([]Scene, error) {
	sceneTexts := p.splitter.Scenes(text)
	if len(sceneTexts) == 0 {
		return nil, nil
	}

	scenes := make([]Scene, len(sceneTexts))
	workers := min(p.workers, len(sceneTexts))

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				scene, err := p.ProcessScene(sceneTexts[idx])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				mu.Lock()
				scenes[idx] = scene
				mu.Unlock()
			}
		}()
	}

	for idx := range sceneTexts {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return scenes, nil
}

// ProcessScene extracts the features of a single scene text.
func (p *Pipeline) ProcessScene(text string) (Scene, error) {
	chars, err := characters.Identify(p.tg, text)
	if err != nil {
		return Scene{}, err
	}
	emotion, err := p.sentiment.Classify(text)
	if err != nil {
		return Scene{}, err
	}
	intensity, err := p.sentiment.Intensity(text)
	if err != nil {
		return Scene{}, err
	}

	if chars == nil {
		chars = []string{}
	}
	actions := p.narrative.Actions(text)
	if actions == nil {
		actions = []string{}
	}

	return Scene{
		Text:             text,
		Description:      p.narrative.Description(text),
		Characters:       chars,
		Dialogues:        p.dialogues.Extract(text),
		Actions:          actions,
		Emotion:          emotion,
		EmotionIntensity: intensity,
	}, nil
}

// ProcessChapters splits text into chapters and structures the scenes of
// each chapter's content.
func (p *Pipeline) ProcessChapters(text string) ([]ChapterScenes, error) {
	chapters := p.splitter.Chapters(text)
	if len(chapters) == 0 {
		return nil, nil
	}

	out := make([]ChapterScenes, 0, len(chapters))
	for _, chapter := range chapters {
		scenes, err := p.ProcessNovel(chapter.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, ChapterScenes{Chapter: chapter, Scenes: scenes})
	}
	return out, nil
}
