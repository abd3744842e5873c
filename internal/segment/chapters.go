package segment

import "strings"

// WholeDocumentTitle is the sentinel title used when no heading pattern
// matches a non-blank document.
const WholeDocumentTitle = "全文"

// Chapter is one heading with its body text.
type Chapter struct {
	Title      string   `json:"title"`
	Number     *int     `json:"chapter_number"`
	Content    string   `json:"content"`
	Paragraphs []string `json:"paragraphs"`
}

// Chapters splits text into chapters. Heading pattern families are tried
// in priority order and the first family with at least one match wins;
// matches from different families are never merged. Text before the first
// heading is dropped. When no family matches, non-blank input becomes a
// single whole-document chapter numbered 1, and blank input yields no
// chapters.
func (s *Splitter) Chapters(text string) []Chapter {
	for _, pattern := range s.lex.ChapterPatterns() {
		headings := pattern.FindAllStringIndex(text, -1)
		if len(headings) == 0 {
			continue
		}
		return buildChapters(text, headings)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	one := 1
	return []Chapter{{
		Title:      WholeDocumentTitle,
		Number:     &one,
		Content:    trimmed,
		Paragraphs: splitContentParagraphs(trimmed),
	}}
}

func buildChapters(text string, headings [][]int) []Chapter {
	chapters := make([]Chapter, 0, len(headings))
	for i, h := range headings {
		title := strings.TrimSpace(text[h[0]:h[1]])

		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		content := strings.TrimSpace(text[h[1]:end])

		chapter := Chapter{
			Title:      title,
			Content:    content,
			Paragraphs: splitContentParagraphs(content),
		}
		if n, ok := Number(title); ok {
			chapter.Number = &n
		}
		chapters = append(chapters, chapter)
	}
	return chapters
}

// splitContentParagraphs returns the non-empty trimmed lines of content.
func splitContentParagraphs(content string) []string {
	if content == "" {
		return nil
	}
	var paragraphs []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, line)
	}
	return paragraphs
}
