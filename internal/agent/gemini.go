package agent

import (
	"context"

	"github.com/richhaase/let-claude-code/internal/runner"
)

var _ Agent = (*GeminiAgent)(nil)

// GeminiAgent implements the Agent interface for the Gemini CLI.
type GeminiAgent struct {
	cli cliAgent
}

// NewGeminiAgent creates a GeminiAgent that runs in workDir.
func NewGeminiAgent(r runner.Runner, workDir string) *GeminiAgent {
	return &GeminiAgent{cli: cliAgent{
		command: "gemini",
		args:    []string{"--yolo"},
		runner:  r,
		workDir: workDir,
	}}
}

// Name returns the agent's identifier.
func (g *GeminiAgent) Name() string {
	return "gemini"
}

// IsAvailable checks if the gemini CLI is installed and accessible.
func (g *GeminiAgent) IsAvailable() error {
	return g.cli.isAvailable()
}

// Invoke runs 'gemini --yolo' with the prompt piped to stdin.
func (g *GeminiAgent) Invoke(ctx context.Context, prompt string, opts InvokeOptions) runner.Result {
	return g.cli.invoke(ctx, prompt, opts)
}
