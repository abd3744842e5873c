package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liushiyun/shuoshu/internal/characters"
	"github.com/liushiyun/shuoshu/internal/pipeline"
	"github.com/liushiyun/shuoshu/internal/sentiment"
)

// topCharacterCount caps the character table in the rendered report.
const topCharacterCount = 10

// MarkdownWriter renders reports as Markdown files.
type MarkdownWriter struct {
	Dir string
}

// Format names the output format.
func (w MarkdownWriter) Format() string { return "markdown" }

// Write renders the report under the writer's directory.
func (w MarkdownWriter) Write(report Report) (string, error) {
	return writeFileAtomic(w.Dir, fileStem(report)+".md", []byte(Markdown(report)))
}

// Markdown renders the report body.
func Markdown(report Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 《%s》结构分析\n\n", report.Title)
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- 生成时间：%s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	if report.SessionKey != "" {
		fmt.Fprintf(&b, "- 会话：%s\n", report.SessionKey)
	}
	b.WriteString("\n## 总览\n\n")

	t := report.Tally
	b.WriteString("| 指标 | 数值 |\n|---|---|\n")
	fmt.Fprintf(&b, "| 章节 | %d |\n", t.Chapters)
	fmt.Fprintf(&b, "| 场景 | %d |\n", t.Scenes)
	fmt.Fprintf(&b, "| 对话 | %d |\n", t.Dialogues)
	fmt.Fprintf(&b, "| 动作 | %d |\n", t.Actions)
	fmt.Fprintf(&b, "| 角色 | %d |\n", t.Characters)
	fmt.Fprintf(&b, "| 平均情感强度 | %.2f |\n", t.AvgIntensity)
	fmt.Fprintf(&b, "\n情感分布：正面 %d · 负面 %d · 中性 %d\n", t.Positive, t.Negative, t.Neutral)

	if len(report.Chapters) > 0 {
		b.WriteString("\n## 章节\n\n")
		b.WriteString("| # | 标题 | 场景 | 对话 | 主要情绪 |\n|---|---|---|---|---|\n")
		for _, ch := range report.Chapters {
			num := "-"
			if ch.Chapter.Number != nil {
				num = fmt.Sprintf("%d", *ch.Chapter.Number)
			}
			dialogues := 0
			for _, scene := range ch.Scenes {
				dialogues += len(scene.Dialogues)
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
				num, ch.Chapter.Title, len(ch.Scenes), dialogues,
				emotionLabel(chapterMood(ch.Scenes)))
		}
	}

	if len(report.Characters) > 0 {
		b.WriteString("\n## 主要角色\n\n")
		b.WriteString("| 角色 | 出场 | 首次出现场景 |\n|---|---|---|\n")
		for _, ch := range topCharacters(report.Characters, topCharacterCount) {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", ch.Name, ch.Appearances, ch.FirstScene+1)
		}
	}

	if len(report.Highlights) > 0 {
		b.WriteString("\n## 高光场景\n\n")
		for i, h := range report.Highlights {
			fmt.Fprintf(&b, "%d. 第%d章 · 场景%d — %s（强度 %.2f）\n",
				i+1, h.Chapter, h.Ordinal+1, emotionLabel(h.Emotion), h.Intensity)
			if h.Excerpt != "" {
				fmt.Fprintf(&b, "   > %s\n", h.Excerpt)
			}
		}
	}

	if report.Analysis != nil {
		a := report.Analysis
		b.WriteString("\n## 深度分析\n\n")
		if a.Theme != "" {
			fmt.Fprintf(&b, "- 主题：%s\n", a.Theme)
		}
		if a.EmotionalArc != "" {
			fmt.Fprintf(&b, "- 情感走向：%s\n", a.EmotionalArc)
		}
		if a.Summary != "" {
			fmt.Fprintf(&b, "\n%s\n", a.Summary)
		}
		if len(a.Characters) > 0 {
			b.WriteString("\n### 角色画像\n\n")
			for _, ch := range a.Characters {
				b.WriteString("- **" + ch.Name + "**")
				var details []string
				if ch.Role != "" {
					details = append(details, ch.Role)
				}
				if ch.Appearance != "" {
					details = append(details, "外貌："+ch.Appearance)
				}
				if ch.Personality != "" {
					details = append(details, "性格："+ch.Personality)
				}
				if len(details) > 0 {
					b.WriteString("  " + strings.Join(details, "；"))
				}
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}

// topCharacters returns up to n characters by appearance count, keeping
// first-seen order between equals.
func topCharacters(chars []characters.Character, n int) []characters.Character {
	sorted := make([]characters.Character, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Appearances > sorted[j].Appearances
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// chapterMood picks the most frequent scene emotion of a chapter; ties
// go to the emotion that reached the count first.
func chapterMood(scenes []pipeline.Scene) string {
	if len(scenes) == 0 {
		return sentiment.Neutral
	}
	counts := make(map[string]int)
	best := ""
	for _, scene := range scenes {
		counts[scene.Emotion]++
		if best == "" || counts[scene.Emotion] > counts[best] {
			best = scene.Emotion
		}
	}
	return best
}

// emotionLabel maps classifier tokens to report labels.
func emotionLabel(emotion string) string {
	switch emotion {
	case sentiment.Positive:
		return "正面"
	case sentiment.Negative:
		return "负面"
	case sentiment.Neutral:
		return "中性"
	default:
		return emotion
	}
}
