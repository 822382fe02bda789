package scanner

// Finding represents a single token-pattern match in scanned content
type Finding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Line     int    `json:"line"`
	Position int    `json:"position"` // byte offset of the match start
	Source   string `json:"source"`
	FileName string `json:"file_name"`
}

// SourceFindings groups the findings reported for one source identifier
type SourceFindings struct {
	Source   string    `json:"source"`
	Findings []Finding `json:"findings"`
}

// Results maps source identifiers to their findings, in the order the
// sources were first added. Sources without findings are never stored.
type Results []SourceFindings

// Add appends findings under source. Empty finding lists are ignored.
func (r *Results) Add(source string, findings []Finding) {
	if len(findings) == 0 {
		return
	}
	for i := range *r {
		if (*r)[i].Source == source {
			(*r)[i].Findings = append((*r)[i].Findings, findings...)
			return
		}
	}
	*r = append(*r, SourceFindings{Source: source, Findings: findings})
}

// Get returns the findings recorded for source
func (r Results) Get(source string) ([]Finding, bool) {
	for _, sf := range r {
		if sf.Source == source {
			return sf.Findings, true
		}
	}
	return nil, false
}

// Sources returns the source identifiers in insertion order
func (r Results) Sources() []string {
	sources := make([]string, 0, len(r))
	for _, sf := range r {
		sources = append(sources, sf.Source)
	}
	return sources
}

// Len returns the number of sources with findings
func (r Results) Len() int {
	return len(r)
}

// Total returns the number of findings across all sources
func (r Results) Total() int {
	total := 0
	for _, sf := range r {
		total += len(sf.Findings)
	}
	return total
}
