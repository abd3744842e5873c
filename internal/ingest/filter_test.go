package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Check(t *testing.T) {
	f := NewFilter(FilterConfig{MaxBytes: 1024})

	tests := []struct {
		name   string
		file   string
		size   int64
		pass   bool
		reason string
	}{
		{"txt passes", "novel.txt", 100, true, ""},
		{"md passes", "novel.md", 100, true, ""},
		{"uppercase extension passes", "NOVEL.TXT", 100, true, ""},
		{"unsupported extension", "novel.pdf", 100, false, "unsupported extension: .pdf"},
		{"no extension", "novel", 100, false, "unsupported extension: "},
		{"hidden file", ".partial.txt", 100, false, "hidden file"},
		{"empty file", "novel.txt", 0, false, "too small: 0 bytes"},
		{"too large", "novel.txt", 2048, false, "too large: 2048 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Check(tt.file, tt.size)
			assert.Equal(t, tt.pass, result.Pass)
			if !tt.pass {
				assert.Equal(t, tt.reason, result.Reason)
			}
		})
	}
}

func TestFilter_AdditionalExtensions(t *testing.T) {
	f := NewFilter(FilterConfig{AdditionalExtensions: []string{".TEXT"}})

	assert.True(t, f.Check("novel.text", 10).Pass)
	assert.True(t, f.Check("novel.txt", 10).Pass)
}

func TestFilter_NoSizeCap(t *testing.T) {
	f := NewFilter(FilterConfig{})
	assert.True(t, f.Check("novel.txt", 1<<30).Pass)
}
