package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Style represents a log message style.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

// DefaultTag prefixes every console line.
const DefaultTag = "autoreview"

// logTimeFormat is the timestamp layout of the persisted run log.
const logTimeFormat = "2006-01-02 15:04:05"

// Logger prints styled, tagged progress lines and optionally appends a
// plain timestamped copy of each line to a log file.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	isTTY bool
	tag   string
	file  io.WriteCloser
	now   func() time.Time
}

// NewLogger creates a logger writing to stdout.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, DefaultTag, IsStdoutTTY())
}

// NewLoggerTo creates a logger writing to w. isTTY enables line clearing
// before each message so it does not collide with a running spinner.
func NewLoggerTo(w io.Writer, tag string, isTTY bool) *Logger {
	return &Logger{out: w, isTTY: isTTY, tag: tag, now: time.Now}
}

// OpenLogFile starts appending every logged line to path.
// Any previously opened log file is closed.
func (l *Logger) OpenLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	return nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func styleColor(style Style) string {
	switch style {
	case StyleSuccess:
		return Green
	case StyleWarning:
		return Yellow
	case StyleError:
		return Red
	case StyleDim:
		return Dim
	case StylePhase:
		return Magenta + Bold
	default:
		return Cyan
	}
}

// Tag returns the colored "[tag]" prefix for a style.
func Tag(tag string, style Style) string {
	return fmt.Sprintf("%s[%s%s%s%s%s]%s",
		Color(Dim), Color(Reset), Color(styleColor(style)), tag, Color(Reset), Color(Dim), Color(Reset))
}

// Log prints a styled log message.
func (l *Logger) Log(msg string, style Style) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Clear line if TTY
	if l.isTTY {
		fmt.Fprint(l.out, "\r"+strings.Repeat(" ", 100)+"\r")
	}
	fmt.Fprintf(l.out, "%s %s\n", Tag(l.tag, style), msg)

	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] %s\n", l.now().Format(logTimeFormat), msg)
	}
}

// Logf prints a formatted styled log message.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// Rule logs a separator line.
func (l *Logger) Rule() {
	l.Log(strings.Repeat("=", 60), StyleDim)
}
