package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/jsspectre/internal/scanner"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 10

// ProgressCallback is called after each external script download finishes
type ProgressCallback func(done int, scriptURL string)

// ScriptStats counts the scripts seen on a page
type ScriptStats struct {
	Inline   int `json:"inline"`
	External int `json:"external"`
	Fetched  int `json:"fetched"`
}

// Outcome is the result of scanning one page
type Outcome struct {
	Target  string          `json:"target"`
	Results scanner.Results `json:"results"`
	Errors  []*FetchError   `json:"errors,omitempty"`
	Scripts ScriptStats     `json:"scripts"`
}

// Fetcher downloads a page and its scripts and scans them for tokens
type Fetcher struct {
	client      Getter
	scanner     *scanner.Scanner
	concurrency int
	progress    ProgressCallback
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithScanner sets the scanner applied to each script
func WithScanner(s *scanner.Scanner) Option {
	return func(f *Fetcher) {
		if s != nil {
			f.scanner = s
		}
	}
}

// WithConcurrency bounds the number of concurrent script downloads
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithProgress sets the progress callback. It may be called concurrently.
func WithProgress(cb ProgressCallback) Option {
	return func(f *Fetcher) {
		f.progress = cb
	}
}

// New creates a fetcher using client for all downloads
func New(client Getter, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.scanner == nil {
		f.scanner, _ = scanner.New()
	}
	return f
}

// script is one <script> element in document order. External scripts are
// filled in by their own download goroutine and read only after Wait.
type script struct {
	source   string
	findings []scanner.Finding
	err      *FetchError
	external bool
}

// FetchAndScan downloads rootURL, extracts its scripts and scans them. It
// never fails: a page that cannot be fetched yields empty results and a
// page-stage error, and failed scripts are recorded and skipped.
func (f *Fetcher) FetchAndScan(ctx context.Context, rootURL string) *Outcome {
	out := &Outcome{Target: rootURL}

	body, err := f.client.Get(ctx, StagePage, rootURL)
	if err != nil {
		out.Errors = append(out.Errors, asFetchError(StagePage, rootURL, err))
		return out
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		out.Errors = append(out.Errors, &FetchError{Stage: StagePage, URL: rootURL, Err: fmt.Errorf("parse html: %w", err)})
		return out
	}

	var (
		scripts []*script
		done    atomic.Int64
		seen    = make(map[string]struct{})
	)
	g := new(errgroup.Group)
	g.SetLimit(f.concurrency)

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && strings.TrimSpace(src) != "" {
			jsURL, err := ResolveScriptURL(rootURL, src)
			if err != nil {
				scripts = append(scripts, &script{
					source: src,
					err:    &FetchError{Stage: StageScript, URL: src, Err: err},
				})
				return
			}
			if _, dup := seen[jsURL]; dup {
				return
			}
			seen[jsURL] = struct{}{}

			s := &script{source: jsURL, external: true}
			scripts = append(scripts, s)
			out.Scripts.External++

			g.Go(func() error {
				s.findings, s.err = f.fetchScript(ctx, jsURL)
				n := done.Add(1)
				if f.progress != nil {
					f.progress(int(n), jsURL)
				}
				return nil
			})
			return
		}

		inline := sel.Text()
		if inline == "" {
			return
		}
		out.Scripts.Inline++
		source := scanner.InlineSource(rootURL)
		scripts = append(scripts, &script{source: source, findings: f.scanner.Scan(inline, source)})
	})

	_ = g.Wait()

	for _, s := range scripts {
		if s.err != nil {
			out.Errors = append(out.Errors, s.err)
			continue
		}
		if s.external {
			out.Scripts.Fetched++
		}
		out.Results.Add(s.source, s.findings)
	}

	slog.Debug("Page scanned",
		slog.String("url", rootURL),
		slog.Int("inline_scripts", out.Scripts.Inline),
		slog.Int("external_scripts", out.Scripts.External),
		slog.Int("findings", out.Results.Total()),
	)

	return out
}

func (f *Fetcher) fetchScript(ctx context.Context, jsURL string) ([]scanner.Finding, *FetchError) {
	body, err := f.client.Get(ctx, StageScript, jsURL)
	if err != nil {
		return nil, asFetchError(StageScript, jsURL, err)
	}
	slog.Debug("Fetched script", slog.String("url", jsURL), slog.Int("bytes", len(body)))
	return f.scanner.Scan(string(body), jsURL), nil
}

func asFetchError(stage Stage, rawURL string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Stage: stage, URL: rawURL, Err: err}
}
