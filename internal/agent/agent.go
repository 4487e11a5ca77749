package agent

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/richhaase/let-claude-code/internal/runner"
)

// Agent is an external coding assistant that can be driven with a prompt.
type Agent interface {
	// Name returns the agent's identifier (e.g., "claude", "codex", "gemini").
	Name() string

	// IsAvailable checks if the agent's CLI is installed and accessible.
	IsAvailable() error

	// Invoke runs the assistant with prompt and waits for it to finish.
	Invoke(ctx context.Context, prompt string, opts InvokeOptions) runner.Result
}

// InvokeOptions configures a single assistant invocation.
type InvokeOptions struct {
	// Timeout bounds the invocation. Zero means no timeout.
	Timeout time.Duration
	// Stream receives the assistant's output as it is produced.
	Stream io.Writer
}

// cliAgent holds the pieces shared by every CLI-backed assistant.
type cliAgent struct {
	command string
	args    []string
	runner  runner.Runner
	workDir string
}

func (c *cliAgent) isAvailable() error {
	if _, err := exec.LookPath(c.command); err != nil {
		return fmt.Errorf("%s CLI not found in PATH: %w", c.command, err)
	}
	return nil
}

func (c *cliAgent) invoke(ctx context.Context, prompt string, opts InvokeOptions) runner.Result {
	return c.runner.Run(ctx, runner.Command{
		Name:    c.command,
		Args:    c.args,
		Dir:     c.workDir,
		Stdin:   strings.NewReader(prompt),
		Stream:  opts.Stream,
		Timeout: opts.Timeout,
	})
}
