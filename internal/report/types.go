package report

import (
	"time"

	"github.com/ppiankov/jsspectre/internal/analyzer"
	"github.com/ppiankov/jsspectre/internal/fetcher"
	"github.com/ppiankov/jsspectre/internal/scanner"
)

// Reporter interface for different report formats
type Reporter interface {
	Generate(data Data) error
}

// Data contains all report data
type Data struct {
	Tool      string           `json:"tool"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Target    string           `json:"target"`
	Config    Config           `json:"config"`
	Summary   analyzer.Summary `json:"summary"`
	Results   scanner.Results  `json:"results"`
	Errors    []FetchFailure   `json:"errors,omitempty"`
}

// Config contains scan configuration
type Config struct {
	UserAgent   string   `json:"user_agent"`
	Concurrency int      `json:"concurrency"`
	Timeout     string   `json:"timeout,omitempty"`
	Types       []string `json:"types"`
}

// FetchFailure is the report form of a failed download
type FetchFailure struct {
	Stage      string `json:"stage"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

// FetchFailures converts fetch errors into their report form
func FetchFailures(errs []*fetcher.FetchError) []FetchFailure {
	if len(errs) == 0 {
		return nil
	}
	out := make([]FetchFailure, 0, len(errs))
	for _, e := range errs {
		if e == nil {
			continue
		}
		out = append(out, FetchFailure{
			Stage:      string(e.Stage),
			URL:        e.URL,
			StatusCode: e.StatusCode,
			Message:    e.Error(),
		})
	}
	return out
}
