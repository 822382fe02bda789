package scanner

import (
	"regexp"
	"strings"
)

// TokenPattern is a named regular expression for one secret category
type TokenPattern struct {
	Name   string
	Regexp *regexp.Regexp
}

// Category labels
const (
	TypeAPIKey       = "API Key"
	TypeJWT          = "JWT"
	TypeAWSKey       = "AWS Key"
	TypeGenericToken = "Generic Token"
	TypeBearerToken  = "Bearer Token"
)

// tokenPatterns is read-only after init; order defines finding order.
var tokenPatterns = []TokenPattern{
	{TypeAPIKey, regexp.MustCompile(`(?i)(?:api[_-]?key|API[_-]?KEY)[=:"'\s]+([a-zA-Z0-9\-_]{20,})`)},
	{TypeJWT, regexp.MustCompile(`(?i)eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)},
	{TypeAWSKey, regexp.MustCompile(`(?i)AKIA[0-9A-Z]{16}`)},
	{TypeGenericToken, regexp.MustCompile(`(?i)(?:token|TOKEN|auth|AUTH)[=:"'\s]+([a-zA-Z0-9\-_]{20,})`)},
	{TypeBearerToken, regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_.-]{20,}`)},
}

// Patterns returns a copy of the built-in token patterns
func Patterns() []TokenPattern {
	out := make([]TokenPattern, len(tokenPatterns))
	copy(out, tokenPatterns)
	return out
}

// PatternNames returns the category labels in scan order
func PatternNames() []string {
	names := make([]string, 0, len(tokenPatterns))
	for _, p := range tokenPatterns {
		names = append(names, p.Name)
	}
	return names
}

// RuleID converts a category label to an identifier such as API_KEY
func RuleID(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}
