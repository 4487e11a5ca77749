package agent

import (
	"context"

	"github.com/richhaase/let-claude-code/internal/runner"
)

// Compile-time interface check
var _ Agent = (*ClaudeAgent)(nil)

// ClaudeAgent implements the Agent interface for the Claude Code CLI.
type ClaudeAgent struct {
	cli cliAgent
}

// NewClaudeAgent creates a ClaudeAgent that runs in workDir.
func NewClaudeAgent(r runner.Runner, workDir string) *ClaudeAgent {
	return &ClaudeAgent{cli: cliAgent{
		command: "claude",
		args:    []string{"--print", "-"},
		runner:  r,
		workDir: workDir,
	}}
}

// Name returns the agent's identifier.
func (c *ClaudeAgent) Name() string {
	return "claude"
}

// IsAvailable checks if the claude CLI is installed and accessible.
func (c *ClaudeAgent) IsAvailable() error {
	return c.cli.isAvailable()
}

// Invoke runs 'claude --print -' with the prompt piped to stdin.
func (c *ClaudeAgent) Invoke(ctx context.Context, prompt string, opts InvokeOptions) runner.Result {
	return c.cli.invoke(ctx, prompt, opts)
}
