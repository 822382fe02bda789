package baseline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/jsspectre/internal/report"
	"github.com/ppiankov/jsspectre/internal/scanner"
)

// Finding is a flattened, identity-comparable token match from a scan.
// Line and position are left out so that edits elsewhere in a script do not
// turn a known token into a new one.
type Finding struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Value  string `json:"value"`
}

func (f Finding) key() string {
	return fmt.Sprintf("%s|%s|%s", f.Type, f.Source, f.Value)
}

// DiffResult holds the outcome of comparing current findings against a baseline.
type DiffResult struct {
	New       []Finding
	Resolved  []Finding
	Unchanged []Finding
}

// Flatten converts scan results into a flat finding list.
func Flatten(results scanner.Results) []Finding {
	var findings []Finding
	for _, sf := range results {
		for _, f := range sf.Findings {
			findings = append(findings, Finding{Type: f.Type, Source: sf.Source, Value: f.Value})
		}
	}
	return findings
}

// Load reads a previous JSON report and extracts its findings.
func Load(path string) ([]Finding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var data report.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	return Flatten(data.Results), nil
}

// Diff compares current findings against a baseline.
func Diff(current, baseline []Finding) DiffResult {
	baseMap := make(map[string]struct{}, len(baseline))
	for _, f := range baseline {
		baseMap[f.key()] = struct{}{}
	}
	curMap := make(map[string]struct{}, len(current))
	for _, f := range current {
		curMap[f.key()] = struct{}{}
	}

	var result DiffResult
	for _, f := range current {
		if _, exists := baseMap[f.key()]; exists {
			result.Unchanged = append(result.Unchanged, f)
		} else {
			result.New = append(result.New, f)
		}
	}
	for _, f := range baseline {
		if _, exists := curMap[f.key()]; !exists {
			result.Resolved = append(result.Resolved, f)
		}
	}
	return result
}
