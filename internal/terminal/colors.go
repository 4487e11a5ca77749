// Package terminal provides styled progress output, the run log, and the
// interactive mode selector.
package terminal

import (
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// ANSI escape sequences used by the logger and spinner.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

const defaultWidth = 80

// plain suppresses escape sequences. The zero value means colored output.
var plain atomic.Bool

// Color returns c, or "" while colors are off.
func Color(c string) string {
	if plain.Load() {
		return ""
	}
	return c
}

// ConfigureColors turns colors on for a terminal unless NO_COLOR is set.
func ConfigureColors(isTTY bool) {
	plain.Store(!isTTY || os.Getenv("NO_COLOR") != "")
}

// WithColorsDisabled runs fn with plain output and restores the previous setting.
func WithColorsDisabled(fn func()) {
	prev := plain.Swap(true)
	defer plain.Store(prev)
	fn()
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return isTerminal(os.Stdout)
}

// IsStderrTTY reports whether stderr is a terminal.
func IsStderrTTY() bool {
	return isTerminal(os.Stderr)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// widthOf returns the column count of the terminal behind w, or
// defaultWidth for anything else.
func widthOf(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
