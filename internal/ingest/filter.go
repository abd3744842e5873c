// Package ingest watches a directory and feeds new novel files through
// the structuring flow.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TextExtensions are the file extensions scanned for novel text.
var TextExtensions = []string{".txt", ".md"}

// Filter decides which directory entries are worth ingesting.
type Filter struct {
	extensions map[string]bool
	minBytes   int64
	maxBytes   int64
}

// FilterConfig holds filter configuration.
type FilterConfig struct {
	// AdditionalExtensions extends the default text extensions.
	AdditionalExtensions []string

	// MinBytes rejects files smaller than this (default: 1, so empty
	// files never ingest).
	MinBytes int64

	// MaxBytes rejects files larger than this (0 = no cap).
	MaxBytes int64
}

// NewFilter creates a new filter.
func NewFilter(cfg FilterConfig) *Filter {
	extensions := make(map[string]bool, len(TextExtensions)+len(cfg.AdditionalExtensions))
	for _, ext := range TextExtensions {
		extensions[ext] = true
	}
	for _, ext := range cfg.AdditionalExtensions {
		extensions[strings.ToLower(ext)] = true
	}

	minBytes := cfg.MinBytes
	if minBytes <= 0 {
		minBytes = 1
	}

	return &Filter{
		extensions: extensions,
		minBytes:   minBytes,
		maxBytes:   cfg.MaxBytes,
	}
}

// FilterResult contains the filter decision.
type FilterResult struct {
	Pass   bool
	Reason string
}

// Check examines a file name and size and returns whether it should be
// ingested.
func (f *Filter) Check(name string, size int64) FilterResult {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return FilterResult{Reason: "hidden file"}
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !f.extensions[ext] {
		return FilterResult{Reason: "unsupported extension: " + ext}
	}

	if size < f.minBytes {
		return FilterResult{Reason: fmt.Sprintf("too small: %d bytes", size)}
	}
	if f.maxBytes > 0 && size > f.maxBytes {
		return FilterResult{Reason: fmt.Sprintf("too large: %d bytes", size)}
	}

	return FilterResult{Pass: true}
}
