package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/richhaase/let-claude-code/internal/agent"
	"github.com/richhaase/let-claude-code/internal/notify"
	"github.com/richhaase/let-claude-code/internal/runner"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

// Iteration caps used when no explicit maximum is configured.
const (
	SingleRunIterations     = 1
	UntilCompleteIterations = 10
)

const (
	instructionPreviewChars = 500
	summaryLines            = 100
)

// ErrAssistantFailed is returned when the assistant fails in single-run mode.
var ErrAssistantFailed = errors.New("assistant failed to execute instructions")

// Reasoner answers audit prompts.
type Reasoner interface {
	Model() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// StopReason records why the loop ended.
type StopReason int

const (
	StopNoIssues StopReason = iota
	StopComplete
	StopNoInstructions
	StopMaxIterations
)

func (s StopReason) String() string {
	switch s {
	case StopNoIssues:
		return "no-issues"
	case StopComplete:
		return "complete"
	case StopNoInstructions:
		return "no-instructions"
	case StopMaxIterations:
		return "max-iterations"
	default:
		return "unknown"
	}
}

// Config configures an audit loop.
type Config struct {
	// Target is the file or directory to audit.
	Target        string
	Goal          string
	UntilComplete bool
	// MaxIterations overrides the cap derived from UntilComplete when > 0.
	MaxIterations int
	// AgentTimeout bounds each assistant run. Zero means no timeout.
	AgentTimeout time.Duration
}

// Iterations returns the effective iteration cap.
func (c Config) Iterations() int {
	switch {
	case c.MaxIterations > 0:
		return c.MaxIterations
	case c.UntilComplete:
		return UntilCompleteIterations
	default:
		return SingleRunIterations
	}
}

// ProjectDir returns the directory the assistant works in: the target itself
// when it is a directory, its parent otherwise.
func ProjectDir(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve target: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("target not found: %s", abs)
	}
	if info.IsDir() {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

// Result summarizes a finished loop.
type Result struct {
	Iterations int
	Reason     StopReason
	// Summary holds the tail of the last assistant run.
	Summary string
}

// Loop alternates between the reasoning model and the coding assistant.
type Loop struct {
	cfg      Config
	reasoner Reasoner
	agent    agent.Agent
	logger   *terminal.Logger
	out      io.Writer
}

// New creates a loop. out receives model responses and assistant output.
func New(cfg Config, reasoner Reasoner, a agent.Agent, logger *terminal.Logger, out io.Writer) *Loop {
	return &Loop{cfg: cfg, reasoner: reasoner, agent: a, logger: logger, out: out}
}

// Run executes the loop until the model reports nothing left to do or the
// iteration cap is reached.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	limit := l.cfg.Iterations()
	var result Result

	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Iterations = i
		l.logger.Logf(terminal.StylePhase, "Iteration %d", i)

		verdict, err := l.ask(ctx, i)
		if err != nil {
			return result, err
		}

		switch {
		case !verdict.IssuesFound:
			l.logger.Log("No issues found! Code looks good.", terminal.StyleSuccess)
			result.Reason = StopNoIssues
			return result, nil
		case !verdict.Continue:
			l.logger.Log("Audit complete!", terminal.StyleSuccess)
			result.Reason = StopComplete
			return result, nil
		case !verdict.Actionable():
			l.logger.Log("No instructions provided by auditor", terminal.StyleWarning)
			result.Reason = StopNoInstructions
			return result, nil
		}

		res := l.runAssistant(ctx, verdict.Instructions)
		result.Summary = runner.LastLines(res.Output, summaryLines)
		if !res.OK {
			l.logger.Logf(terminal.StyleError, "%s failed to execute instructions: %v", notify.Title(l.agent.Name()), res.Err())
			if !l.cfg.UntilComplete {
				return result, ErrAssistantFailed
			}
			l.logger.Log("Continuing to next iteration anyway...", terminal.StyleWarning)
		}

		l.logger.Logf(terminal.StyleSuccess, "Iteration %d complete", i)
	}

	result.Reason = StopMaxIterations
	if limit > 1 {
		l.logger.Logf(terminal.StyleWarning, "Reached max iterations (%d)", limit)
	}
	return result, nil
}

func (l *Loop) ask(ctx context.Context, iteration int) (Verdict, error) {
	content := ReadTarget(l.cfg.Target)
	prompt := BuildPrompt(content, iteration, l.cfg.Goal)
	model := l.reasoner.Model()

	l.logger.Logf(terminal.StyleInfo, "Sending to %s for audit...", model)
	start := time.Now()
	response, err := l.reasoner.Complete(ctx, prompt)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to get audit response from %s: %w", model, err)
	}
	clog.FromContext(ctx).With("model", model, "duration", time.Since(start)).Debugf("audit response received (%d chars)", len(response))

	rule := strings.Repeat("=", 60)
	fmt.Fprintf(l.out, "\n%s\n%s Audit Result:\n%s\n%s\n%s\n\n", rule, model, rule, response, rule)

	return ParseResponse(response), nil
}

func (l *Loop) runAssistant(ctx context.Context, instructions string) runner.Result {
	preview := runner.Truncate(instructions, instructionPreviewChars)
	if preview != instructions {
		preview += "..."
	}
	l.logger.Logf(terminal.StylePhase, "Running %s with instructions:", notify.Title(l.agent.Name()))
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(l.out, "%s\n%s\n%s\n\n", rule, preview, rule)

	return l.agent.Invoke(ctx, instructions, agent.InvokeOptions{
		Timeout: l.cfg.AgentTimeout,
		Stream:  l.out,
	})
}
