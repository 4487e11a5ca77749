// Package runner executes external commands and reports failures as data.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
)

const (
	// TimeoutMessage is the output reported when a command exceeds its timeout.
	TimeoutMessage = "Command timed out"
	// CanceledMessage is the output reported when the caller's context is cancelled.
	CanceledMessage = "Command canceled"
)

// DefaultWaitDelay bounds how long Run waits for output pipes to close once
// the process has exited or been killed.
const DefaultWaitDelay = 5 * time.Second

// Command describes one external command invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdin is fed to the process when non-nil.
	Stdin io.Reader
	// Stream receives combined output as it is produced, in addition to Result.Output.
	Stream io.Writer
	// Timeout bounds the run. Zero means no timeout beyond the caller's context.
	Timeout time.Duration
}

// Result is the outcome of a command. Run never returns a Go error;
// every failure mode is described here.
type Result struct {
	OK bool
	// Output is combined stdout and stderr, or a diagnostic message on failure.
	Output   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Sentinel causes reported by Result.Err.
var (
	ErrTimeout  = errors.New("timed out")
	ErrCanceled = errors.New("canceled")
)

// Err converts a failed result into an error cause. It returns nil when OK.
func (r Result) Err() error {
	switch {
	case r.OK:
		return nil
	case r.TimedOut:
		return ErrTimeout
	case r.Output == CanceledMessage:
		return ErrCanceled
	case r.ExitCode > 0:
		return fmt.Errorf("exit status %d", r.ExitCode)
	default:
		return errors.New(strings.TrimSpace(r.Output))
	}
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// Exec runs commands as child processes.
type Exec struct {
	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
}

var _ Runner = (*Exec)(nil)

// New returns a Runner backed by os/exec.
func New() *Exec {
	return &Exec{}
}

// Run executes the command and waits for it to finish or time out.
// The child runs in its own process group, which is killed as a whole
// when the timeout fires or ctx is cancelled.
func (e *Exec) Run(ctx context.Context, c Command) Result {
	start := time.Now()

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	// #nosec G204 - command names come from the drivers in this module, not user input.
	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative pid targets the whole process group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = DefaultWaitDelay
	if e.WaitDelay > 0 {
		cmd.WaitDelay = e.WaitDelay
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if c.Stream != nil {
		out = io.MultiWriter(&buf, c.Stream)
	}
	// Same writer for both streams so exec serializes the writes.
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	result := Result{
		Output:   buf.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.OK = true
	case errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success():
		// A background child still held the output pipes; the command itself succeeded.
		result.OK = true
	case ctx.Err() != nil:
		result.Output = CanceledMessage
		result.ExitCode = -1
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Output = TimeoutMessage
		result.ExitCode = -1
		result.TimedOut = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Launch failure: binary missing, bad working directory, etc.
			result.Output = err.Error()
			result.ExitCode = -1
		}
	}

	clog.FromContext(ctx).With("command", c.Name, "exit", result.ExitCode, "duration", result.Duration).
		Debugf("command finished ok=%t timed_out=%t", result.OK, result.TimedOut)

	return result
}

// LastLines returns the final n lines of text.
func LastLines(text string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// Truncate returns at most n runes of text.
func Truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
