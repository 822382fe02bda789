package fetcher

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveScriptURL resolves a script src attribute against the page URL.
// Relative, absolute and protocol-relative references are supported; the
// result must be an http or https URL.
func ResolveScriptURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse script src: %w", err)
	}

	resolved := b.ResolveReference(r)
	switch resolved.Scheme {
	case "http", "https":
		return resolved.String(), nil
	default:
		return "", fmt.Errorf("unsupported script url scheme %q", resolved.Scheme)
	}
}
