// Package main provides the CLI entry point for the code audit loop.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richhaase/let-claude-code/internal/agent"
	"github.com/richhaase/let-claude-code/internal/audit"
	"github.com/richhaase/let-claude-code/internal/config"
	"github.com/richhaase/let-claude-code/internal/domain"
	"github.com/richhaase/let-claude-code/internal/reasoning"
	"github.com/richhaase/let-claude-code/internal/runner"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

const logTag = "audit"

type options struct {
	untilComplete bool
	goal          string
	model         string
	effort        string
	maxIterations int
	agentName     string
	verbose       bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr exitCodeError
		if errors.As(err, &exitErr) {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitFailure.Int()
	}
	return domain.ExitSuccess.Int()
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "audit <target>",
		Short: "A reasoning model audits your code and directs a coding assistant to fix it",
		Long: `Send a file or directory to a reasoning model for audit, then hand its fix
instructions to a coding assistant. With --until-complete, repeat until the
model reports nothing left to fix.

Models: gpt-5* (streaming responses API), other OpenAI models, claude-*, gemini-*.
API keys come from OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY.

Exit codes:
  0 - Audit finished, including when no issues were found
  1 - Failure, missing credentials, or target not found
  130 - Interrupted`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, o, args[0])
		},
	}

	f := rootCmd.Flags()
	f.BoolVar(&o.untilComplete, "until-complete", false,
		"Loop until the model determines all issues are fixed (default: run once)")
	f.StringVarP(&o.goal, "goal", "g", "", "Custom audit goal/focus (e.g., 'security', 'performance')")
	f.StringVar(&o.model, "ai-model", reasoning.DefaultModel,
		"Reasoning model: gpt-5.2, gpt-5.2-pro, gpt-5-mini, gpt-4o, claude-*, gemini-*")
	f.StringVar(&o.effort, "reasoning", reasoning.DefaultEffort,
		"Reasoning effort for gpt-5 models: "+strings.Join(reasoning.Efforts, ", "))
	f.IntVar(&o.maxIterations, "max-iterations", 0,
		fmt.Sprintf("Override the iteration cap (default: %d, or %d with --until-complete)",
			audit.SingleRunIterations, audit.UntilCompleteIterations))
	f.StringVar(&o.agentName, "agent", agent.DefaultAgent, "Coding assistant: "+strings.Join(agent.SupportedAgents, ", "))
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Print debug diagnostics")

	return rootCmd
}

func runAudit(cmd *cobra.Command, o *options, target string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	isTTY := terminal.IsStdoutTTY()
	terminal.ConfigureColors(isTTY)

	if !reasoning.ValidEffort(o.effort) {
		return fmt.Errorf("invalid --reasoning %q (valid: %s)", o.effort, strings.Join(reasoning.Efforts, ", "))
	}
	if cmd.Flags().Changed("max-iterations") && o.maxIterations < 1 {
		return fmt.Errorf("--max-iterations must be >= 1, got %d", o.maxIterations)
	}

	projectDir, err := audit.ProjectDir(target)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return exitCode(domain.ExitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = terminal.WithDiagnostics(ctx, errOut, o.verbose)

	env, err := config.LoadEnv(ctx)
	if err != nil {
		return err
	}
	key, err := env.APIKey(o.model)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		if reasoning.KeyEnv(o.model) == "OPENAI_API_KEY" {
			fmt.Fprintln(errOut, "Get your API key from: https://platform.openai.com/api-keys")
		}
		return exitCode(domain.ExitFailure)
	}

	client, err := reasoning.New(ctx, reasoning.Options{
		Model:    o.model,
		Effort:   o.effort,
		APIKey:   key,
		BaseURL:  env.BaseURL(o.model),
		Progress: out,
	})
	if err != nil {
		return err
	}

	ag, err := agent.NewAgent(o.agentName, runner.New(), projectDir)
	if err != nil {
		return err
	}

	cfg := audit.Config{
		Target:        target,
		Goal:          o.goal,
		UntilComplete: o.untilComplete,
		AgentTimeout:  agent.DefaultTimeouts.Change,
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = o.maxIterations
	}

	printBanner(out, o, projectDir, target)

	logger := terminal.NewLoggerTo(out, logTag, isTTY)
	loop := audit.New(cfg, withProgress(client, errOut, terminal.IsStderrTTY()), ag, logger, out)

	result, err := loop.Run(ctx)
	switch {
	case ctx.Err() != nil:
		fmt.Fprintln(out)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		return exitCode(domain.ExitInterrupted)
	case errors.Is(err, audit.ErrAssistantFailed):
		return exitCode(domain.ExitFailure)
	case err != nil:
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitFailure)
	}

	logger.Logf(terminal.StyleSuccess, "Audit complete! (%d iteration(s), %s)", result.Iterations, result.Reason)
	return nil
}

func printBanner(w io.Writer, o *options, projectDir, target string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nCode Audit with %s\n%s\n", rule, o.model, rule)
	fmt.Fprintf(w, "Target: %s\n", target)
	fmt.Fprintf(w, "Project directory: %s\n", projectDir)
	if o.goal != "" {
		fmt.Fprintf(w, "Goal: %s\n", o.goal)
	}
	if o.untilComplete {
		fmt.Fprintln(w, "Mode: Loop until complete")
	} else {
		fmt.Fprintln(w, "Mode: Single run")
	}
	fmt.Fprintf(w, "Assistant: %s\n", o.agentName)
	fmt.Fprintf(w, "%s\n\n", rule)
}
