package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the default logger on stderr. Only warnings and errors are
// shown unless verbose is set, so progress and per-script details stay quiet.
func Init(verbose bool) {
	slog.SetDefault(New(os.Stderr, verbose))
}

// New returns a text logger writing to w.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
