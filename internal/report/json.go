package report

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/jsspectre/internal/scanner"
)

// JSONReporter generates JSON reports
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Generate generates a JSON report. Results are always encoded as an array.
func (r *JSONReporter) Generate(data Data) error {
	data.Timestamp = data.Timestamp.UTC()
	if data.Results == nil {
		data.Results = scanner.Results{}
	}
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
