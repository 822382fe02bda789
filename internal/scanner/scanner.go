package scanner

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	inlineMarker     = "(inline)"
	inlineFileName   = "inline_script"
	fallbackFileName = "unknown.js"
)

// Scanner applies a fixed set of token patterns to text
type Scanner struct {
	patterns []TokenPattern
}

// Option configures a Scanner
type Option func(*Scanner) error

// WithTypes restricts scanning to the named categories. Names are matched
// case-insensitively against the label ("API Key") or rule ID ("API_KEY").
func WithTypes(names ...string) Option {
	return func(s *Scanner) error {
		if len(names) == 0 {
			return nil
		}
		for _, n := range names {
			if !knownType(n) {
				return fmt.Errorf("unknown token type %q (supported: %s)", n, strings.Join(PatternNames(), ", "))
			}
		}
		selected := make([]TokenPattern, 0, len(names))
		for _, p := range tokenPatterns {
			for _, n := range names {
				if RuleID(n) == RuleID(p.Name) {
					selected = append(selected, p)
					break
				}
			}
		}
		s.patterns = selected
		return nil
	}
}

func knownType(name string) bool {
	for _, p := range tokenPatterns {
		if RuleID(name) == RuleID(p.Name) {
			return true
		}
	}
	return false
}

// New creates a scanner using every built-in pattern unless restricted
func New(opts ...Option) (*Scanner, error) {
	s := &Scanner{patterns: tokenPatterns}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Types returns the category labels this scanner reports, in scan order
func (s *Scanner) Types() []string {
	names := make([]string, 0, len(s.patterns))
	for _, p := range s.patterns {
		names = append(names, p.Name)
	}
	return names
}

var defaultScanner = &Scanner{patterns: tokenPatterns}

// Scan scans content with all built-in patterns
func Scan(content, source string) []Finding {
	return defaultScanner.Scan(content, source)
}

// Scan returns every match of every pattern in content. Matches from
// different categories may overlap; all of them are reported.
func (s *Scanner) Scan(content, source string) []Finding {
	var findings []Finding
	fileName := FileNameFromSource(source)

	for _, p := range s.patterns {
		for _, loc := range p.Regexp.FindAllStringIndex(content, -1) {
			start, end := loc[0], loc[1]
			findings = append(findings, Finding{
				Type:     p.Name,
				Value:    content[start:end],
				Line:     strings.Count(content[:start], "\n") + 1,
				Position: start,
				Source:   source,
				FileName: fileName,
			})
		}
	}

	return findings
}

// InlineSource returns the source identifier used for inline scripts on pageURL
func InlineSource(pageURL string) string {
	return pageURL + " " + inlineMarker
}

// IsInlineSource reports whether source names an inline script
func IsInlineSource(source string) bool {
	return strings.Contains(source, inlineMarker)
}

// FileNameFromSource derives a file name for reporting. Inline sources get a
// fixed name; URLs yield their last path segment, or unknown.js when the URL
// is unusable.
func FileNameFromSource(source string) string {
	if IsInlineSource(source) {
		return inlineFileName
	}

	u, err := url.Parse(source)
	if err != nil || !u.IsAbs() {
		return fallbackFileName
	}

	p := u.EscapedPath()
	if p == "" {
		return fallbackFileName
	}
	base := path.Base(p)
	if base == "/" || base == "." {
		return fallbackFileName
	}
	return base
}
