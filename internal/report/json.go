package report

import (
	"encoding/json"
	"fmt"
)

// JSONWriter renders reports as indented JSON files carrying the full
// structured records.
type JSONWriter struct {
	Dir string
}

// Format names the output format.
func (w JSONWriter) Format() string { return "json" }

// Write renders the report under the writer's directory.
func (w JSONWriter) Write(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return writeFileAtomic(w.Dir, fileStem(report)+".json", append(data, '\n'))
}
