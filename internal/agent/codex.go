package agent

import (
	"context"

	"github.com/richhaase/let-claude-code/internal/runner"
)

var _ Agent = (*CodexAgent)(nil)

// CodexAgent implements the Agent interface for the Codex CLI.
type CodexAgent struct {
	cli cliAgent
}

// NewCodexAgent creates a CodexAgent that runs in workDir.
// --full-auto lets codex write to the workspace without prompting.
func NewCodexAgent(r runner.Runner, workDir string) *CodexAgent {
	return &CodexAgent{cli: cliAgent{
		command: "codex",
		args:    []string{"exec", "--full-auto", "-"},
		runner:  r,
		workDir: workDir,
	}}
}

// Name returns the agent's identifier.
func (c *CodexAgent) Name() string {
	return "codex"
}

// IsAvailable checks if the codex CLI is installed and accessible.
func (c *CodexAgent) IsAvailable() error {
	return c.cli.isAvailable()
}

// Invoke runs 'codex exec --full-auto -' with the prompt piped to stdin.
func (c *CodexAgent) Invoke(ctx context.Context, prompt string, opts InvokeOptions) runner.Result {
	return c.cli.invoke(ctx, prompt, opts)
}
