// Package main provides the CLI entry point for the auto-improvement daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/richhaase/let-claude-code/internal/agent"
	"github.com/richhaase/let-claude-code/internal/config"
	"github.com/richhaase/let-claude-code/internal/domain"
	"github.com/richhaase/let-claude-code/internal/forge"
	"github.com/richhaase/let-claude-code/internal/git"
	"github.com/richhaase/let-claude-code/internal/lock"
	"github.com/richhaase/let-claude-code/internal/modes"
	"github.com/richhaase/let-claude-code/internal/northstar"
	"github.com/richhaase/let-claude-code/internal/notify"
	"github.com/richhaase/let-claude-code/internal/review"
	"github.com/richhaase/let-claude-code/internal/runner"
	"github.com/richhaase/let-claude-code/internal/schedule"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

// options holds the raw flag values. Settings that also come from the
// config file or environment are merged by config.Resolve.
type options struct {
	once     bool
	interval int
	cronExpr string

	modes         []string
	northStar     bool
	initNorthStar bool
	listModes     bool
	promptFile    string

	projectDir    string
	autoMerge     bool
	baseBranch    string
	maxIterations int
	agentName     string
	forgeKind     string

	tgBotToken string
	tgChatID   string

	noConfig bool
	verbose  bool
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
		Use:   "autoreview",
		Short: "Auto-improvement daemon - lets a coding assistant improve code and open reviewed PRs",
		Long: `Run a coding assistant against a project, open a change request with its commits,
and loop a reviewer and a fixer until the change is approved or the iteration cap is hit.

Exit codes:
  0 - Success, or nothing to do
  1 - Failure
  130 - Interrupted`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAutoreview(cmd, o)
		},
	}

	f := rootCmd.Flags()
	f.BoolVar(&o.once, "once", false, "Run once and exit")
	f.IntVar(&o.interval, "interval", 0, "Run every N seconds")
	f.StringVar(&o.cronExpr, "cron", "", "Cron expression (e.g., '0 */4 * * *')")

	f.StringArrayVarP(&o.modes, "mode", "m", nil,
		"Improvement mode to run (repeatable). Use 'all' for all modes, 'interactive' to select interactively")
	f.BoolVarP(&o.northStar, "northstar", "n", false,
		"Iterate towards goals defined in NORTHSTAR.md (shortcut for -m northstar)")
	f.BoolVar(&o.initNorthStar, "init-northstar", false, "Create a default NORTHSTAR.md template and exit")
	f.BoolVar(&o.listModes, "list-modes", false, "List available improvement modes and exit")
	f.StringVar(&o.promptFile, "prompt-file", "", "Path to custom review prompt file (overrides --mode)")

	f.StringVar(&o.projectDir, "project-dir", ".", "Project directory to review")
	f.BoolVar(&o.autoMerge, "auto-merge", false, "Automatically merge approved PRs")
	f.StringVar(&o.baseBranch, "base-branch", "main",
		"Base branch for PRs (env: AUTOREVIEW_BASE_BRANCH)")
	f.IntVar(&o.maxIterations, "max-iterations", review.DefaultMaxIterations,
		"Max review-fix iterations before giving up (env: AUTOREVIEW_MAX_ITERATIONS)")
	f.StringVar(&o.agentName, "agent", agent.DefaultAgent,
		"Coding assistant: claude, codex, gemini (env: AUTOREVIEW_AGENT)")
	f.StringVar(&o.forgeKind, "forge", forge.KindAuto,
		"Change request host: auto, github, gitlab (env: AUTOREVIEW_FORGE)")

	f.StringVar(&o.tgBotToken, "tg-bot-token", "", "Telegram bot token (env: TG_BOT_TOKEN)")
	f.StringVar(&o.tgChatID, "tg-chat-id", "", "Telegram chat ID (env: TG_CHAT_ID)")

	f.BoolVar(&o.noConfig, "no-config", false, "Skip loading "+config.FileName)
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Stream assistant output and print debug diagnostics")

	rootCmd.AddCommand(newConfigCmd())
	setGroupedUsage(rootCmd)

	return rootCmd
}

func runAutoreview(cmd *cobra.Command, o *options) error {
	out := cmd.OutOrStdout()
	terminal.ConfigureColors(terminal.IsStdoutTTY())
	registry := modes.Default()

	if o.listModes {
		listModes(out, registry)
		return nil
	}

	projectDir, err := filepath.Abs(o.projectDir)
	if err != nil {
		return fmt.Errorf("invalid project directory: %w", err)
	}

	if o.initNorthStar {
		return initNorthStar(out, projectDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = terminal.WithDiagnostics(ctx, cmd.ErrOrStderr(), o.verbose)

	resolved, err := resolveConfig(ctx, cmd, o, projectDir)
	if err != nil {
		return err
	}

	logger := terminal.NewLogger()
	defer logger.Close()

	sched, err := newScheduler(o, resolved, logger)
	if err != nil {
		_ = cmd.Usage()
		return err
	}

	sel, err := selector{
		registry:   registry,
		projectDir: projectDir,
		out:        out,
		pick:       terminalSelect,
	}.resolve(resolved.Modes, o.promptFile)
	if errors.Is(err, errNothingSelected) {
		fmt.Fprintln(out, "No modes selected. Exiting.")
		return nil
	}
	if err != nil {
		return err
	}

	printBanner(out, resolved, projectDir, sel, registry)

	if err := logger.OpenLogFile(projectPath(projectDir, resolved.LogFile)); err != nil {
		logger.Logf(terminal.StyleWarning, "Continuing without run log: %v", err)
	}

	ctrl, err := newController(ctx, projectDir, resolved, sel, registry, logger, o.verbose)
	if err != nil {
		return err
	}

	ok := sched.Run(ctx, func(ctx context.Context) bool {
		return ctrl.RunOnce(ctx).OK()
	})

	if ctx.Err() != nil {
		fmt.Fprintln(out)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		if o.once {
			return exitCode(domain.ExitInterrupted)
		}
		return nil
	}
	if !ok {
		return exitCode(domain.ExitFailure)
	}
	return nil
}

func initNorthStar(out io.Writer, projectDir string) error {
	path, err := northstar.Init(projectDir)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return exitCode(domain.ExitFailure)
	}
	fmt.Fprintf(out, "Created %s\n", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. Edit %s to customize goals for your project\n", northstar.FileName)
	fmt.Fprintln(out, "  2. Run: autoreview --once --northstar")
	return nil
}

// resolveConfig merges the config file, environment and flags, then validates the result.
func resolveConfig(ctx context.Context, cmd *cobra.Command, o *options, projectDir string) (config.Resolved, error) {
	var cfg *config.Config
	if !o.noConfig {
		result, err := config.LoadFromDir(projectDir)
		if err != nil {
			return config.Resolved{}, fmt.Errorf("config error: %w", err)
		}
		cfg = result.Config
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
		}
	}

	env, err := config.LoadEnv(ctx)
	if err != nil {
		return config.Resolved{}, err
	}
	if err := env.Validate(); err != nil {
		return config.Resolved{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("interval") && o.interval <= 0 {
		return config.Resolved{}, fmt.Errorf("--interval must be > 0, got %d", o.interval)
	}

	modeKeys := o.modes
	if o.northStar {
		modeKeys = []string{modes.NorthStar}
	}

	flagState := config.FlagState{
		BaseBranchSet:     flags.Changed("base-branch"),
		MaxIterationsSet:  flags.Changed("max-iterations"),
		AutoMergeSet:      flags.Changed("auto-merge"),
		ModesSet:          flags.Changed("mode") || o.northStar,
		AgentSet:          flags.Changed("agent"),
		ForgeSet:          flags.Changed("forge"),
		IntervalSet:       flags.Changed("interval"),
		CronSet:           flags.Changed("cron"),
		TelegramTokenSet:  flags.Changed("tg-bot-token"),
		TelegramChatIDSet: flags.Changed("tg-chat-id"),
	}
	flagValues := config.Resolved{
		BaseBranch:     o.baseBranch,
		MaxIterations:  o.maxIterations,
		AutoMerge:      o.autoMerge,
		Modes:          modeKeys,
		Agent:          o.agentName,
		Forge:          o.forgeKind,
		Interval:       time.Duration(o.interval) * time.Second,
		Cron:           o.cronExpr,
		TelegramToken:  o.tgBotToken,
		TelegramChatID: o.tgChatID,
	}

	resolved := config.Resolve(cfg, env, flagState, flagValues)
	if err := resolved.Validate(); err != nil {
		return config.Resolved{}, err
	}
	return resolved, nil
}

// newScheduler picks the run schedule. Exactly one of --once, --interval and
// --cron may be given; without any, a schedule from the config file is used.
func newScheduler(o *options, r config.Resolved, logger *terminal.Logger) (schedule.Scheduler, error) {
	given := 0
	for _, set := range []bool{o.once, o.interval != 0, o.cronExpr != ""} {
		if set {
			given++
		}
	}
	if given > 1 {
		return nil, errors.New("--once, --interval and --cron are mutually exclusive")
	}

	switch {
	case o.once:
		return schedule.Once{}, nil
	case r.Interval > 0:
		return schedule.Interval{Every: r.Interval, Logger: logger}, nil
	case r.Cron != "":
		return schedule.NewCron(r.Cron, nil, logger)
	default:
		return nil, errors.New("specify --once, --interval, or --cron")
	}
}

func newController(ctx context.Context, projectDir string, r config.Resolved, sel selection,
	registry *modes.Registry, logger *terminal.Logger, verbose bool) (*review.Controller, error) {
	cmdRunner := runner.New()

	fg, err := forge.New(ctx, r.Forge, cmdRunner, projectDir, forge.Options{
		PushTimeout:    r.PushTimeout,
		CommandTimeout: r.CommandTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := fg.IsAvailable(); err != nil {
		logger.Logf(terminal.StyleWarning, "Change request CLI not available: %v", err)
	}

	ag, err := agent.NewAgent(r.Agent, cmdRunner, projectDir)
	if err != nil {
		return nil, err
	}
	if err := ag.IsAvailable(); err != nil {
		logger.Logf(terminal.StyleWarning, "Assistant not available: %v", err)
	}

	cfg := review.Config{
		BaseBranch:    r.BaseBranch,
		Modes:         sel.Modes,
		Prompt:        sel.Prompt,
		MaxIterations: r.MaxIterations,
		AutoMerge:     r.AutoMerge,
		Timeouts:      r.Timeouts,
	}
	if sel.NorthStar {
		cfg.LoadPrompt = func() (string, error) {
			return northstar.Prompt(projectDir)
		}
	}

	deps := review.Deps{
		Lock:     lock.New(projectPath(projectDir, r.LockFile)),
		Git:      git.New(cmdRunner, projectDir, r.CommandTimeout),
		Forge:    fg,
		Agent:    ag,
		Notifier: notify.New(r.TelegramToken, r.TelegramChatID),
		Logger:   logger,
		Registry: registry,
	}
	if verbose {
		deps.Stream = os.Stdout
	}
	return review.New(cfg, deps)
}
