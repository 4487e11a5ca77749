package terminal

import (
	"context"
	"io"
	"log/slog"

	"github.com/chainguard-dev/clog"
)

// WithDiagnostics attaches a clog logger writing plain text to w.
// Library packages log through clog.FromContext; only warnings show
// unless verbose is set.
func WithDiagnostics(ctx context.Context, w io.Writer, verbose bool) context.Context {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return clog.WithLogger(ctx, clog.New(h))
}
