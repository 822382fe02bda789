package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ppiankov/jsspectre/internal/report"
)

func printStatus(format string, args ...interface{}) {
	slog.Info(fmt.Sprintf(format, args...))
}

type errorAdvice struct {
	title     string
	solutions []string
}

// adviseError recognizes common network and file errors
func adviseError(err error, concurrency int) (errorAdvice, bool) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "no such host"):
		return errorAdvice{
			title: "Host could not be resolved",
			solutions: []string{
				"Check the domain is spelled correctly",
				"Verify DNS resolution works from this machine",
			},
		}, true
	case strings.Contains(errMsg, "connection refused"):
		return errorAdvice{
			title: "Connection refused",
			solutions: []string{
				"Check the site is up and listening on the expected port",
				"Try the http:// scheme if the site does not serve HTTPS",
			},
		}, true
	case strings.Contains(errMsg, "x509:") || strings.Contains(errMsg, "tls:"):
		return errorAdvice{
			title: "TLS handshake failed",
			solutions: []string{
				"Check the certificate of the site is valid for the host",
				"Try the http:// scheme if the site does not serve HTTPS",
			},
		}, true
	case strings.Contains(errMsg, "429"):
		return errorAdvice{
			title: "Rate limited by the server",
			solutions: []string{
				fmt.Sprintf("Reduce concurrency with --concurrency flag (current: %d)", concurrency),
				"Wait a few seconds and try again",
			},
		}, true
	case strings.Contains(errMsg, "no such file or directory"):
		return errorAdvice{
			title: "File not found",
			solutions: []string{
				"Check the --baseline or --output path is correct",
				"Ensure the directory exists and is writable",
			},
		}, true
	}

	return errorAdvice{}, false
}

// enhanceError enhances an error with additional context and helpful suggestions
func enhanceError(operation string, err error, concurrency int) error {
	if err == nil {
		return nil
	}

	advice, ok := adviseError(err, concurrency)
	if !ok {
		return fmt.Errorf("%s failed: %w", operation, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s failed: %s.\nSolutions:\n", operation, advice.title)
	for _, s := range advice.solutions {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	return fmt.Errorf("%sOriginal error: %w", b.String(), err)
}

func selectReporter(format string, writer io.Writer) (report.Reporter, error) {
	switch format {
	case "json":
		return report.NewJSONReporter(writer), nil
	case "sarif":
		return report.NewSARIFReporter(writer), nil
	case "spectrehub":
		return report.NewSpectreHubReporter(writer), nil
	case "text":
		return report.NewTextReporter(writer), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: text, json, sarif, spectrehub)", format)
	}
}
