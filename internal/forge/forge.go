// Package forge creates, pushes, and merges hosted change requests through
// the GitHub (gh) and GitLab (glab) command-line tools.
package forge

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/richhaase/let-claude-code/internal/domain"
	"github.com/richhaase/let-claude-code/internal/git"
	"github.com/richhaase/let-claude-code/internal/runner"
)

// ErrNoURL indicates the create command succeeded but printed no change request URL.
var ErrNoURL = errors.New("no change request URL in command output")

// ErrAuthFailed indicates the hosting CLI is not authenticated.
var ErrAuthFailed = errors.New("forge authentication failed")

// Forge kinds.
const (
	KindAuto   = "auto"
	KindGitHub = "github"
	KindGitLab = "gitlab"
)

// SupportedKinds lists the values accepted by New.
var SupportedKinds = []string{KindAuto, KindGitHub, KindGitLab}

// Default timeouts for forge operations.
const (
	DefaultPushTimeout    = 120 * time.Second
	DefaultCommandTimeout = 60 * time.Second
)

// Forge abstracts the change request operations of a code host.
type Forge interface {
	Kind() string
	// IsAvailable checks that the hosting CLI is installed.
	IsAvailable() error
	// Push publishes branch to origin and sets its upstream.
	Push(ctx context.Context, branch string) error
	// Create opens a change request and returns it with URL and number filled in.
	Create(ctx context.Context, opts CreateOpts) (domain.ChangeRequest, error)
	// Merge squash-merges the change request and deletes its source branch.
	Merge(ctx context.Context, number string) error
	// Commands returns the CLI invocations an assistant uses to inspect the change request.
	Commands(number string) Commands
}

// CreateOpts are the parameters for creating a change request.
type CreateOpts struct {
	Title      string
	Body       string
	BaseBranch string
}

// Commands are shell command lines embedded in reviewer and fixer prompts.
type Commands struct {
	// Ref is the human-readable reference, e.g. "PR #12" or "MR !12".
	Ref      string
	View     string
	Diff     string
	Checkout string
	// Review is the review subcommand the assistant must not use on its own change request.
	Review string
}

// Options configures timeouts for forge commands.
type Options struct {
	PushTimeout    time.Duration
	CommandTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.PushTimeout <= 0 {
		o.PushTimeout = DefaultPushTimeout
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = DefaultCommandTimeout
	}
	return o
}

// New returns the forge of the given kind. KindAuto and "" detect it from
// the origin remote.
func New(ctx context.Context, kind string, r runner.Runner, dir string, opts Options) (Forge, error) {
	switch kind {
	case KindGitHub:
		return NewGitHub(r, dir, opts), nil
	case KindGitLab:
		return NewGitLab(r, dir, opts), nil
	case KindAuto, "":
		return Detect(ctx, r, dir, opts), nil
	default:
		return nil, fmt.Errorf("unknown forge %q (supported: %s)", kind, strings.Join(SupportedKinds, ", "))
	}
}

// Detect picks the forge from the origin remote URL. Anything that does not
// look like GitLab is treated as GitHub.
func Detect(ctx context.Context, r runner.Runner, dir string, opts Options) Forge {
	url, err := git.New(r, dir, opts.withDefaults().CommandTimeout).RemoteURL(ctx, "origin")
	if err == nil && strings.Contains(strings.ToLower(url), "gitlab") {
		return NewGitLab(r, dir, opts)
	}
	return NewGitHub(r, dir, opts)
}

// cliForge holds what GitHub and GitLab share.
type cliForge struct {
	cli    string
	runner runner.Runner
	dir    string
	opts   Options
}

func newCLIForge(cli string, r runner.Runner, dir string, opts Options) cliForge {
	return cliForge{cli: cli, runner: r, dir: dir, opts: opts.withDefaults()}
}

func (c *cliForge) IsAvailable() error {
	if _, err := exec.LookPath(c.cli); err != nil {
		return fmt.Errorf("%s CLI not found in PATH: %w", c.cli, err)
	}
	return nil
}

func (c *cliForge) Push(ctx context.Context, branch string) error {
	res := c.runner.Run(ctx, runner.Command{
		Name:    "git",
		Args:    []string{"push", "-u", "origin", branch},
		Dir:     c.dir,
		Timeout: c.opts.PushTimeout,
	})
	if !res.OK {
		return commandError(fmt.Sprintf("push branch '%s'", branch), res)
	}
	return nil
}

func (c *cliForge) run(ctx context.Context, args ...string) runner.Result {
	return c.runner.Run(ctx, runner.Command{
		Name:    c.cli,
		Args:    args,
		Dir:     c.dir,
		Timeout: c.opts.CommandTimeout,
	})
}

// create runs the create command and extracts the change request from its output.
func (c *cliForge) create(ctx context.Context, opts CreateOpts, args []string, isURL func(string) bool) (domain.ChangeRequest, error) {
	res := c.run(ctx, args...)
	if !res.OK {
		return domain.ChangeRequest{}, commandError("create change request", res)
	}
	url := FindURL(res.Output, isURL)
	if url == "" {
		return domain.ChangeRequest{}, fmt.Errorf("failed to create change request (%s): %w",
			strings.TrimSpace(runner.Truncate(res.Output, 200)), ErrNoURL)
	}
	return domain.ChangeRequest{
		Number: Number(url),
		URL:    url,
		Title:  opts.Title,
		Body:   opts.Body,
	}, nil
}

// FindURL returns the first line of output accepted by isURL, trimmed.
func FindURL(output string, isURL func(string) bool) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if isURL(line) {
			return line
		}
	}
	return ""
}

// Number returns the change request number, the last path segment of url.
func Number(url string) string {
	return path.Base(strings.TrimRight(url, "/"))
}

// commandError classifies a failed hosting command, mapping authentication
// failures to ErrAuthFailed.
func commandError(op string, res runner.Result) error {
	output := strings.TrimSpace(res.Output)
	if res.TimedOut || output == "" {
		return fmt.Errorf("failed to %s: %w", op, res.Err())
	}

	lower := strings.ToLower(output)
	if strings.Contains(lower, "401") ||
		strings.Contains(lower, "auth login") ||
		strings.Contains(lower, "not logged") ||
		strings.Contains(lower, "authentication") ||
		strings.Contains(lower, "credentials") {
		return fmt.Errorf("failed to %s (%s): %w", op, output, ErrAuthFailed)
	}
	return fmt.Errorf("failed to %s (%s): %w", op, output, res.Err())
}
