package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs the default slog handler: text on w, Info level,
// Debug with --verbose.
func setupLogging(opts *RootOptions, w io.Writer) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
