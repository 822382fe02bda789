package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/ppiankov/jsspectre/internal/analyzer"
	"github.com/ppiankov/jsspectre/internal/scanner"
)

const noFindingsMessage = "No potential tokens found."

// TextReporter generates human-readable text reports
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{writer: w}
}

// Generate prints every source with findings followed by a summary block
func (r *TextReporter) Generate(data Data) error {
	if data.Results.Total() == 0 {
		fmt.Fprintln(r.writer, noFindingsMessage)
	} else {
		for _, sf := range data.Results {
			r.printSource(sf)
		}
	}

	r.printSummary(data.Summary)
	r.printErrors(data.Errors)

	return nil
}

func (r *TextReporter) printSource(sf scanner.SourceFindings) {
	fmt.Fprintf(r.writer, "\n%s %s\n", color.CyanString("Source:"), sf.Source)
	fmt.Fprintln(r.writer, strings.Repeat("-", 50))
	for _, f := range sf.Findings {
		fmt.Fprintf(r.writer, "Type: %s\n", typeColor(f.Type).Sprint(f.Type))
		fmt.Fprintf(r.writer, "Value: %s\n", f.Value)
		fmt.Fprintf(r.writer, "File: %s\n", f.FileName)
		fmt.Fprintf(r.writer, "Line: %d\n", f.Line)
		fmt.Fprintf(r.writer, "Position: %d\n", f.Position)
		fmt.Fprintln(r.writer, strings.Repeat("-", 60))
	}
}

func (r *TextReporter) printSummary(summary analyzer.Summary) {
	fmt.Fprintf(r.writer, "\nSummary\n")
	fmt.Fprintf(r.writer, "-------\n")
	fmt.Fprintf(r.writer, "Scripts: %d inline, %d external (%d fetched)\n",
		summary.ScriptsInline, summary.ScriptsExternal, summary.ScriptsFetched)
	fmt.Fprintf(r.writer, "Sources With Findings: %d\n", summary.SourcesWithFindings)
	fmt.Fprintf(r.writer, "Total Findings: %d\n", summary.TotalFindings)

	types := make([]string, 0, len(summary.ByType))
	for t := range summary.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(r.writer, "  %s: %d\n", typeColor(t).Sprint(t), summary.ByType[t])
	}

	if summary.FetchErrors > 0 {
		fmt.Fprintf(r.writer, "%s: %d\n", color.RedString("Fetch Errors"), summary.FetchErrors)
	}
}

func (r *TextReporter) printErrors(errs []FetchFailure) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(r.writer, "\n%s\n", color.RedString("Fetch Errors"))
	fmt.Fprintln(r.writer, strings.Repeat("-", 50))
	for _, e := range errs {
		fmt.Fprintf(r.writer, "  [%s] %s\n", strings.ToUpper(e.Stage), e.Message)
	}
}

func typeColor(tokenType string) *color.Color {
	switch analyzer.SeverityFor(tokenType) {
	case analyzer.SeverityHigh:
		return color.New(color.FgRed)
	case analyzer.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgMagenta)
	}
}
