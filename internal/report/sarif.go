package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ppiankov/jsspectre/internal/analyzer"
	"github.com/ppiankov/jsspectre/internal/scanner"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"

	sarifRulePrefix = "jsspectre/"
)

type SARIFReporter struct {
	writer io.Writer
}

func NewSARIFReporter(w io.Writer) *SARIFReporter {
	return &SARIFReporter{writer: w}
}

type sarifLog struct {
	Schema  string     `json:"$schema,omitempty"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level,omitempty"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine  int `json:"startLine,omitempty"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength,omitempty"`
}

type sarifRuleMeta struct {
	Name        string
	Description string
}

var sarifRules = map[string]sarifRuleMeta{
	scanner.TypeAPIKey: {
		Name:        "APIKey",
		Description: "Value assigned to an api key identifier",
	},
	scanner.TypeJWT: {
		Name:        "JWT",
		Description: "JSON Web Token embedded in script",
	},
	scanner.TypeAWSKey: {
		Name:        "AWSKey",
		Description: "AWS access key ID embedded in script",
	},
	scanner.TypeGenericToken: {
		Name:        "GenericToken",
		Description: "Value assigned to a token or auth identifier",
	},
	scanner.TypeBearerToken: {
		Name:        "BearerToken",
		Description: "Bearer authorization credential embedded in script",
	},
}

func (r *SARIFReporter) Generate(data Data) error {
	var results []sarifResult
	usedRules := make(map[string]sarifRule)

	for _, sf := range data.Results {
		uri := sf.Source
		if scanner.IsInlineSource(sf.Source) {
			uri = data.Target
		}
		for _, f := range sf.Findings {
			message := fmt.Sprintf("Potential %s in %s at line %d", f.Type, f.FileName, f.Line)
			location := sarifLocation{
				PhysicalLocation: &sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: uri},
					Region: &sarifRegion{
						StartLine:  f.Line,
						ByteOffset: f.Position,
						ByteLength: len(f.Value),
					},
				},
			}
			results = appendResult(results, usedRules, f.Type, message, []sarifLocation{location})
		}
	}

	return r.writeSARIF(data.Tool, data.Version, results, usedRules)
}

func (r *SARIFReporter) writeSARIF(toolName, toolVersion string, results []sarifResult, usedRules map[string]sarifRule) error {
	ruleIDs := make([]string, 0, len(usedRules))
	for id := range usedRules {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	rules := make([]sarifRule, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rules = append(rules, usedRules[id])
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:    toolName,
					Version: toolVersion,
					Rules:   rules,
				},
			},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func appendResult(results []sarifResult, usedRules map[string]sarifRule, tokenType, message string, locations []sarifLocation) []sarifResult {
	ruleID := sarifRuleID(tokenType)
	rule := sarifRule{ID: ruleID}
	if meta, ok := sarifRules[tokenType]; ok {
		rule.Name = meta.Name
		rule.ShortDescription = sarifMessage{Text: meta.Description}
	}
	if message == "" {
		message = rule.ShortDescription.Text
	}
	if _, exists := usedRules[ruleID]; !exists {
		usedRules[ruleID] = rule
	}

	results = append(results, sarifResult{
		RuleID:    ruleID,
		Level:     sarifLevel(analyzer.SeverityFor(tokenType)),
		Message:   sarifMessage{Text: message},
		Locations: locations,
	})

	return results
}

func sarifRuleID(tokenType string) string {
	return sarifRulePrefix + scanner.RuleID(tokenType)
}

func sarifLevel(severity analyzer.Severity) string {
	switch severity {
	case analyzer.SeverityHigh:
		return "error"
	case analyzer.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
