package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/jsspectre/internal/analyzer"
	"github.com/ppiankov/jsspectre/internal/baseline"
	"github.com/ppiankov/jsspectre/internal/fetcher"
	"github.com/ppiankov/jsspectre/internal/report"
	"github.com/ppiankov/jsspectre/internal/scanner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type scanOptions struct {
	userAgent      string
	concurrency    int
	types          []string
	outputFormat   string
	outputFile     string
	failOnFindings bool
	noProgress     bool
	timeout        time.Duration
	requestTimeout time.Duration
	baselinePath   string
	updateBaseline bool
}

var scanFlags scanOptions

var scanCmd = &cobra.Command{
	Use:   "scan <domain|url>",
	Short: "Scan a web page and its scripts for leaked tokens",
	Long: `Downloads the page at the given domain or URL, fetches every external
script it references, and scans external and inline script bodies for API
keys, JWTs, AWS access keys, generic tokens and bearer tokens.

A domain without a scheme is scanned over https.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd)
}

// addScanFlags registers the scan flags on cmd. The root command and the scan
// subcommand share them.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scanFlags.userAgent, "user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with every request")
	cmd.Flags().IntVar(&scanFlags.concurrency, "concurrency", 10, "Max concurrent script downloads")
	cmd.Flags().StringSliceVar(&scanFlags.types, "types", nil, "Token types to report (comma-separated, default all)")
	cmd.Flags().StringVarP(&scanFlags.outputFormat, "format", "f", "text", "Output format: text, json, sarif, or spectrehub")
	cmd.Flags().StringVarP(&scanFlags.outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&scanFlags.failOnFindings, "fail-on-findings", false, "Exit with error if any potential token is found")
	cmd.Flags().BoolVar(&scanFlags.noProgress, "no-progress", false, "Disable progress indicators")
	cmd.Flags().DurationVar(&scanFlags.timeout, "timeout", 0, "Total operation timeout (e.g. 5m, 30s). 0 means no timeout")
	cmd.Flags().DurationVar(&scanFlags.requestTimeout, "request-timeout", 0, "Per-request timeout. 0 means no timeout")
	cmd.Flags().StringVar(&scanFlags.baselinePath, "baseline", "", "Path to previous JSON report for diff comparison")
	cmd.Flags().BoolVar(&scanFlags.updateBaseline, "update-baseline", false, "Write current results as the new baseline")
}

// NormalizeTarget prepends https:// to targets given without an http or https scheme
func NormalizeTarget(raw string) string {
	target := strings.TrimSpace(raw)
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return target
	}
	return "https://" + target
}

func runScan(cmd *cobra.Command, args []string) error {
	// Apply config file defaults for flags not explicitly set
	applyConfigToScanFlags(cmd)

	target := NormalizeTarget(args[0])
	fmt.Fprintf(cmd.ErrOrStderr(), "Starting scan on: %s\n", target)

	return executeScan(cmd.Context(), target, scanFlags, cmd.OutOrStdout())
}

func executeScan(ctx context.Context, target string, opts scanOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	start := time.Now()

	if _, err := selectReporter(opts.outputFormat, io.Discard); err != nil {
		return err
	}

	tokenScanner, err := scanner.New(scanner.WithTypes(opts.types...))
	if err != nil {
		return err
	}

	client := fetcher.NewClient(opts.userAgent, opts.requestTimeout)
	defer func() { _ = client.Close() }()

	fetchOpts := []fetcher.Option{
		fetcher.WithScanner(tokenScanner),
		fetcher.WithConcurrency(opts.concurrency),
	}

	// Check if we're running in a terminal (for progress indicators)
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	if isTTY && !opts.noProgress {
		fetchOpts = append(fetchOpts, fetcher.WithProgress(func(done int, scriptURL string) {
			slog.Debug("Scan progress", slog.Int("scripts_done", done), slog.String("url", scriptURL))
		}))
	}

	printStatus("Fetching %s", target)
	outcome := fetcher.New(client, fetchOpts...).FetchAndScan(ctx, target)
	logFetchErrors(outcome.Errors, opts.concurrency)

	userAgent := opts.userAgent
	if userAgent == "" {
		userAgent = fetcher.DefaultUserAgent
	}
	reportData := report.Data{
		Tool:      "jsspectre",
		Version:   GetVersion(),
		Timestamp: time.Now(),
		Target:    target,
		Config: report.Config{
			UserAgent:   userAgent,
			Concurrency: opts.concurrency,
			Types:       tokenScanner.Types(),
		},
		Summary: analyzer.Summarize(outcome),
		Results: outcome.Results,
		Errors:  report.FetchFailures(outcome.Errors),
	}
	if opts.timeout > 0 {
		reportData.Config.Timeout = opts.timeout.String()
	}

	// Baseline comparison, before the output file may overwrite it
	if opts.baselinePath != "" {
		currentFindings := baseline.Flatten(reportData.Results)
		baselineFindings, err := baseline.Load(opts.baselinePath)
		if err != nil {
			return enhanceError("baseline load", err, opts.concurrency)
		}
		diff := baseline.Diff(currentFindings, baselineFindings)
		slog.Info("Baseline comparison",
			slog.Int("new", len(diff.New)),
			slog.Int("resolved", len(diff.Resolved)),
			slog.Int("unchanged", len(diff.Unchanged)),
		)
	}

	// Determine output writer
	writer := stdout
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return enhanceError("output file creation", err, opts.concurrency)
		}
		defer func() { _ = f.Close() }()
		writer = f
	}

	reporter, err := selectReporter(opts.outputFormat, writer)
	if err != nil {
		return err
	}

	if err := reporter.Generate(reportData); err != nil {
		return enhanceError("report generation", err, opts.concurrency)
	}

	// Write updated baseline if requested
	if opts.updateBaseline {
		if err := writeBaseline(opts.outputFile, reportData); err != nil {
			return enhanceError("baseline write", err, opts.concurrency)
		}
	}

	slog.Info("Scan complete",
		slog.String("target", target),
		slog.Int("source_count", reportData.Summary.SourcesWithFindings),
		slog.Int("finding_count", reportData.Summary.TotalFindings),
		slog.Int("error_count", reportData.Summary.FetchErrors),
		slog.Duration("duration", time.Since(start)),
	)

	// Check exit conditions
	if opts.failOnFindings && reportData.Summary.HasFindings() {
		return fmt.Errorf("found %d potential tokens", reportData.Summary.TotalFindings)
	}

	return nil
}

// writeBaseline rewrites path with the JSON form of data
func writeBaseline(path string, data report.Data) error {
	if path == "" {
		slog.Warn("--update-baseline requires --output; baseline not written")
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.NewJSONReporter(f).Generate(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("Updated baseline", slog.String("path", path))
	return nil
}

func logFetchErrors(errs []*fetcher.FetchError, concurrency int) {
	for _, e := range errs {
		msg := "Failed to download script"
		if e.Stage == fetcher.StagePage {
			msg = "Failed to fetch page"
		}
		attrs := []any{slog.String("url", e.URL), slog.Any("error", e.Err)}
		if e.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", e.StatusCode))
		}
		if advice, ok := adviseError(e, concurrency); ok {
			attrs = append(attrs, slog.String("hint", advice.title))
		}
		slog.Error(msg, attrs...)
	}
}

func applyConfigToScanFlags(cmd *cobra.Command) {
	if !cmd.Flags().Lookup("user-agent").Changed && cfg.UserAgent != "" {
		scanFlags.userAgent = cfg.UserAgent
	}
	if !cmd.Flags().Lookup("concurrency").Changed && cfg.Concurrency > 0 {
		scanFlags.concurrency = cfg.Concurrency
	}
	if !cmd.Flags().Lookup("types").Changed && len(cfg.Types) > 0 {
		scanFlags.types = cfg.Types
	}
	if !cmd.Flags().Lookup("format").Changed && cfg.Format != "" {
		scanFlags.outputFormat = cfg.Format
	}
	if !cmd.Flags().Lookup("timeout").Changed {
		if d := cfg.TimeoutDuration(); d > 0 {
			scanFlags.timeout = d
		}
	}
}
