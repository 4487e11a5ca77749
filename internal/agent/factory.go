package agent

import (
	"fmt"

	"github.com/richhaase/let-claude-code/internal/runner"
)

// SupportedAgents lists all valid agent names.
var SupportedAgents = []string{"claude", "codex", "gemini"}

// DefaultAgent is the assistant used when none is specified.
const DefaultAgent = "claude"

// NewAgent creates an Agent by name that runs commands through r in workDir.
func NewAgent(name string, r runner.Runner, workDir string) (Agent, error) {
	switch name {
	case "claude":
		return NewClaudeAgent(r, workDir), nil
	case "codex":
		return NewCodexAgent(r, workDir), nil
	case "gemini":
		return NewGeminiAgent(r, workDir), nil
	default:
		return nil, fmt.Errorf("unknown agent %q, supported: claude, codex, gemini", name)
	}
}
