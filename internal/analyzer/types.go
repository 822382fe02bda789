package analyzer

// Severity ranks how damaging a leaked token category is
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Summary contains high-level scan summary
type Summary struct {
	TotalFindings       int              `json:"total_findings"`
	SourcesWithFindings int              `json:"sources_with_findings"`
	ByType              map[string]int   `json:"by_type,omitempty"`
	BySeverity          map[Severity]int `json:"by_severity,omitempty"`
	ScriptsInline       int              `json:"scripts_inline"`
	ScriptsExternal     int              `json:"scripts_external"`
	ScriptsFetched      int              `json:"scripts_fetched"`
	FetchErrors         int              `json:"fetch_errors"`
}

// HasFindings reports whether any token was found
func (s Summary) HasFindings() bool {
	return s.TotalFindings > 0
}
