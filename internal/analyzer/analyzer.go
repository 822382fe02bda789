package analyzer

import (
	"github.com/ppiankov/jsspectre/internal/fetcher"
	"github.com/ppiankov/jsspectre/internal/scanner"
)

var severities = map[string]Severity{
	scanner.TypeAWSKey:       SeverityHigh,
	scanner.TypeJWT:          SeverityHigh,
	scanner.TypeAPIKey:       SeverityMedium,
	scanner.TypeBearerToken:  SeverityMedium,
	scanner.TypeGenericToken: SeverityLow,
}

// SeverityFor maps a token category to its severity. Unknown categories are low.
func SeverityFor(tokenType string) Severity {
	if s, ok := severities[tokenType]; ok {
		return s
	}
	return SeverityLow
}

// Summarize counts findings by category and severity and copies the script
// statistics of the page scan
func Summarize(out *fetcher.Outcome) Summary {
	summary := Summary{
		ByType:     make(map[string]int),
		BySeverity: make(map[Severity]int),
	}
	if out == nil {
		return summary
	}

	for _, sf := range out.Results {
		summary.SourcesWithFindings++
		for _, f := range sf.Findings {
			summary.TotalFindings++
			summary.ByType[f.Type]++
			summary.BySeverity[SeverityFor(f.Type)]++
		}
	}

	summary.ScriptsInline = out.Scripts.Inline
	summary.ScriptsExternal = out.Scripts.External
	summary.ScriptsFetched = out.Scripts.Fetched
	summary.FetchErrors = len(out.Errors)

	return summary
}
