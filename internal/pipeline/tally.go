package pipeline

import "github.com/liushiyun/shuoshu/internal/sentiment"

// Tally aggregates scene counts across processed chapters.
type Tally struct {
	Chapters     int     `json:"chapters"`
	Scenes       int     `json:"scenes"`
	Dialogues    int     `json:"dialogues"`
	Actions      int     `json:"actions"`
	Characters   int     `json:"characters"`
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
	AvgIntensity float64 `json:"avg_intensity"`
}

// TallyChapters counts scenes, dialogues, actions, distinct character
// names and the emotion split over processed chapters. AvgIntensity is
// the mean scene intensity, zero when there are no scenes.
func TallyChapters(chapters []ChapterScenes) Tally {
	t := Tally{Chapters: len(chapters)}
	names := make(map[string]struct{})
	var intensity float64

	for _, ch := range chapters {
		for _, scene := range ch.Scenes {
			t.Scenes++
			t.Dialogues += len(scene.Dialogues)
			t.Actions += len(scene.Actions)
			for _, name := range scene.Characters {
				names[name] = struct{}{}
			}
			switch scene.Emotion {
			case sentiment.Positive:
				t.Positive++
			case sentiment.Negative:
				t.Negative++
			default:
				t.Neutral++
			}
			intensity += scene.EmotionIntensity
		}
	}

	t.Characters = len(names)
	if t.Scenes > 0 {
		t.AvgIntensity = intensity / float64(t.Scenes)
	}
	return t
}
