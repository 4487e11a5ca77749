// Package review runs one improve, review, fix and merge cycle against a
// working tree.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/richhaase/let-claude-code/internal/agent"
	"github.com/richhaase/let-claude-code/internal/domain"
	"github.com/richhaase/let-claude-code/internal/forge"
	"github.com/richhaase/let-claude-code/internal/git"
	"github.com/richhaase/let-claude-code/internal/lock"
	"github.com/richhaase/let-claude-code/internal/modes"
	"github.com/richhaase/let-claude-code/internal/notify"
	"github.com/richhaase/let-claude-code/internal/runner"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

// DefaultMaxIterations bounds the review-fix loop when unset.
const DefaultMaxIterations = 3

const (
	outputLogLimit  = 2000
	fixSummaryLimit = 500
)

// Lock guards the working tree against concurrent sessions.
type Lock interface {
	Acquire() (bool, error)
	Release()
	// Holder describes who holds the lock when Acquire returned false.
	Holder() (lock.Info, error)
}

// Git is the subset of version control operations a session needs.
type Git interface {
	Checkout(ctx context.Context, ref string) error
	Pull(ctx context.Context) error
	CreateBranch(ctx context.Context, name string) error
	CommitsAhead(ctx context.Context, base string) (int, error)
	HasChanges(ctx context.Context) bool
}

// Config is the per-session configuration.
type Config struct {
	BaseBranch string
	// Modes are the selected improvement mode keys, or a single special
	// selector (modes.NorthStar, modes.Custom).
	Modes []string
	// Prompt replaces the combined mode prompt when non-empty.
	Prompt string
	// LoadPrompt, when set, is called at the start of every session and
	// takes precedence over Prompt.
	LoadPrompt    func() (string, error)
	MaxIterations int
	AutoMerge     bool
	Timeouts      agent.Timeouts
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Lock     Lock
	Git      Git
	Forge    forge.Forge
	Agent    agent.Agent
	Notifier notify.Notifier
	Logger   *terminal.Logger
	Registry *modes.Registry
	// Now defaults to time.Now.
	Now func() time.Time
	// Stream receives assistant output live. Nil disables streaming.
	Stream io.Writer
}

// Controller runs review sessions.
type Controller struct {
	cfg  Config
	deps Deps
}

// New validates cfg and deps and returns a Controller.
func New(cfg Config, deps Deps) (*Controller, error) {
	if cfg.BaseBranch == "" {
		return nil, errors.New("base branch is required")
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxIterations < 1 {
		return nil, fmt.Errorf("max iterations must be at least 1, got %d", cfg.MaxIterations)
	}
	if cfg.Timeouts == (agent.Timeouts{}) {
		cfg.Timeouts = agent.DefaultTimeouts
	}
	if deps.Lock == nil || deps.Git == nil || deps.Forge == nil || deps.Agent == nil {
		return nil, errors.New("lock, git, forge and agent are required")
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = terminal.NewLogger()
	}
	if deps.Registry == nil {
		deps.Registry = modes.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{cfg: cfg, deps: deps}, nil
}

// ModeNames returns the display names of the configured modes.
func (c *Controller) ModeNames() string {
	return c.deps.Registry.Names(c.cfg.Modes)
}

// session is the mutable state of one RunOnce call.
type session struct {
	result    domain.SessionResult
	branched  bool
	summaries []string
}

// RunOnce runs a single session. It never returns an error: every failure
// is reported through the result outcome, the log, and a notification.
func (c *Controller) RunOnce(ctx context.Context) domain.SessionResult {
	start := c.deps.Now()
	s := &session{result: domain.SessionResult{Outcome: domain.OutcomeSkipped}}

	acquired, err := c.deps.Lock.Acquire()
	if err != nil {
		c.log(terminal.StyleError, "Failed to acquire lock: %v", err)
		s.result.Outcome = domain.OutcomeFailed
		return s.result
	}
	if !acquired {
		if info, err := c.deps.Lock.Holder(); err == nil {
			c.log(terminal.StyleWarning, "Another review is already running (pid %d since %s), skipping",
				info.PID, info.AcquiredAt.Format(time.DateTime))
		} else {
			c.log(terminal.StyleWarning, "Another review is already running (lock file exists), skipping")
		}
		return s.result
	}
	defer c.deps.Lock.Release()
	defer c.cleanup(ctx, s)

	c.deps.Logger.Rule()
	c.log(terminal.StylePhase, "Starting review cycle")

	c.run(ctx, s)

	s.result.Duration = c.deps.Now().Sub(start)
	return s.result
}

func (c *Controller) run(ctx context.Context, s *session) {
	s.result.Outcome = domain.OutcomeFailed

	if !c.createBranch(ctx, s) {
		c.notify(ctx, notify.BranchFailed())
		return
	}

	prompt, err := c.prompt()
	if err != nil {
		c.log(terminal.StyleError, "Failed to load prompt: %v", err)
		c.notify(ctx, notify.AssistantFailed(c.deps.Agent.Name()))
		return
	}

	c.log(terminal.StyleInfo, "Starting code review and fix...")
	change := c.deps.Agent.Invoke(ctx, prompt, agent.InvokeOptions{
		Timeout: c.cfg.Timeouts.Change,
		Stream:  c.deps.Stream,
	})
	c.log(terminal.StyleDim, "Review output:\n%s...", runner.Truncate(change.Output, outputLogLimit))
	if !change.OK {
		c.log(terminal.StyleError, "Review failed: %v", change.Err())
		c.notify(ctx, notify.AssistantFailed(c.deps.Agent.Name()))
		return
	}
	s.summaries = []string{change.Output}

	if c.deps.Git.HasChanges(ctx) {
		c.log(terminal.StyleWarning, "%s left uncommitted changes; only committed work goes into the change request", c.deps.Agent.Name())
	}

	ahead, err := c.deps.Git.CommitsAhead(ctx, c.cfg.BaseBranch)
	if err != nil {
		c.log(terminal.StyleError, "Failed to inspect branch: %v", err)
		c.notify(ctx, notify.CreateFailed())
		return
	}
	if ahead == 0 {
		c.log(terminal.StyleSuccess, "No bugs found or fixed, nothing to open a change request for")
		c.notify(ctx, notify.NoChanges())
		s.result.Outcome = domain.OutcomeNoChanges
		return
	}

	cr, ok := c.openChangeRequest(ctx, s, change.Output)
	if !ok {
		c.notify(ctx, notify.CreateFailed())
		return
	}
	s.result.ChangeRequest = &cr

	c.reviewLoop(ctx, s, cr)
}

func (c *Controller) prompt() (string, error) {
	if c.cfg.LoadPrompt != nil {
		return c.cfg.LoadPrompt()
	}
	if c.cfg.Prompt != "" {
		return c.cfg.Prompt, nil
	}
	return c.deps.Registry.CombinedPrompt(c.cfg.Modes), nil
}

func (c *Controller) createBranch(ctx context.Context, s *session) bool {
	if err := c.deps.Git.Checkout(ctx, c.cfg.BaseBranch); err != nil {
		c.log(terminal.StyleError, "Failed to checkout %s: %v", c.cfg.BaseBranch, err)
		return false
	}
	if err := c.deps.Git.Pull(ctx); err != nil {
		c.log(terminal.StyleWarning, "Warning: Failed to pull latest changes: %v", err)
	}

	prefix := ""
	if len(c.cfg.Modes) > 0 {
		prefix = c.cfg.Modes[0]
	}
	name := git.BranchName(prefix, c.deps.Now())
	if err := c.deps.Git.CreateBranch(ctx, name); err != nil {
		c.log(terminal.StyleError, "Failed to create branch: %v", err)
		return false
	}

	s.branched = true
	s.result.Branch = name
	c.log(terminal.StyleSuccess, "Created branch: %s", name)
	return true
}

func (c *Controller) openChangeRequest(ctx context.Context, s *session, summary string) (domain.ChangeRequest, bool) {
	if err := c.deps.Forge.Push(ctx, s.result.Branch); err != nil {
		c.log(terminal.StyleError, "Failed to push branch: %v", err)
		return domain.ChangeRequest{}, false
	}

	names := c.ModeNames()
	cr, err := c.deps.Forge.Create(ctx, forge.CreateOpts{
		Title:      Title(names, c.deps.Now()),
		Body:       Body(names, summary),
		BaseBranch: c.cfg.BaseBranch,
	})
	if err != nil {
		if errors.Is(err, forge.ErrAuthFailed) {
			c.log(terminal.StyleError, "Failed to create change request: %s is not authenticated: %v", c.deps.Forge.Kind(), err)
		} else {
			c.log(terminal.StyleError, "Failed to create change request: %v", err)
		}
		return domain.ChangeRequest{}, false
	}

	c.log(terminal.StyleSuccess, "Created change request: %s", cr.URL)
	return cr, true
}

func (c *Controller) reviewLoop(ctx context.Context, s *session, cr domain.ChangeRequest) {
	limit := c.cfg.MaxIterations
	cmds := c.deps.Forge.Commands(cr.Number)
	assistant := c.deps.Agent.Name()

	for i := 1; i <= limit; i++ {
		s.result.Iterations = i
		c.log(terminal.StylePhase, "Review iteration %d/%d", i, limit)
		c.log(terminal.StyleInfo, "Spawning reviewer for %s", cr.URL)

		review := c.deps.Agent.Invoke(ctx, ReviewerPrompt(cmds), agent.InvokeOptions{
			Timeout: c.cfg.Timeouts.Review,
			Stream:  c.deps.Stream,
		})
		c.log(terminal.StyleDim, "Reviewer output:\n%s", review.Output)
		if !review.OK {
			// No verdict to act on; the next iteration reviews again.
			c.log(terminal.StyleWarning, "Reviewer failed on iteration %d: %v", i, review.Err())
			continue
		}

		verdict := DetectVerdict(review.Output)
		if verdict.Ambiguous {
			s.result.Ambiguous = true
			c.log(terminal.StyleWarning, "Reviewer output both approves and requests changes; treating as changes requested")
			clog.FromContext(ctx).With("iteration", i, "url", cr.URL).Warn("ambiguous reviewer verdict")
		}

		if verdict.Approved {
			c.log(terminal.StyleSuccess, "Change request approved by reviewer on iteration %d", i)
			c.finishApproved(ctx, s, cr, i)
			return
		}

		c.log(terminal.StyleWarning, "Reviewer requested changes on iteration %d", i)
		c.notify(ctx, notify.Fixing(i, limit, cr.URL, assistant))
		c.log(terminal.StyleInfo, "Spawning fixer to address feedback (iteration %d)", i)

		fix := c.deps.Agent.Invoke(ctx, FixerPrompt(cmds, verdict.Feedback), agent.InvokeOptions{
			Timeout: c.cfg.Timeouts.Fix,
			Stream:  c.deps.Stream,
		})
		c.log(terminal.StyleDim, "Fixer output:\n%s...", runner.Truncate(fix.Output, outputLogLimit))
		if !fix.OK {
			c.log(terminal.StyleError, "Fixer failed on iteration %d: %v", i, fix.Err())
			c.notify(ctx, notify.FixerFailed(i, cr.URL))
			s.result.Outcome = domain.OutcomeFixerFailed
			return
		}

		s.summaries = append(s.summaries,
			fmt.Sprintf("Iteration %d fixes:\n%s", i, runner.Truncate(fix.Output, fixSummaryLimit)))
		if i < limit {
			c.log(terminal.StyleInfo, "Fixer completed iteration %d, re-running review...", i)
		}
	}

	c.log(terminal.StyleWarning, "Max iterations (%d) reached without approval", limit)
	c.notify(ctx, notify.MaxIterations(limit, cr.URL, c.summary(s)))
	s.result.Outcome = domain.OutcomeUnapproved
}

func (c *Controller) finishApproved(ctx context.Context, s *session, cr domain.ChangeRequest, iteration int) {
	summary := c.summary(s)

	if !c.cfg.AutoMerge {
		c.log(terminal.StyleSuccess, "Auto-merge disabled. Change request ready for manual merge: %s", cr.URL)
		c.notify(ctx, notify.Ready(iteration, cr.URL, summary))
		s.result.Outcome = domain.OutcomeReady
		return
	}

	if err := c.deps.Forge.Merge(ctx, cr.Number); err != nil {
		c.log(terminal.StyleError, "Failed to merge: %v", err)
		c.notify(ctx, notify.MergeFailed(cr.URL, summary))
		s.result.Outcome = domain.OutcomeMergeFailed
		return
	}
	c.log(terminal.StyleSuccess, "%s merged successfully", c.deps.Forge.Commands(cr.Number).Ref)
	c.notify(ctx, notify.Merged(iteration, cr.URL, summary))
	s.result.Outcome = domain.OutcomeMerged
}

func (c *Controller) summary(s *session) string {
	return notify.CleanSummary(strings.Join(s.summaries, "\n\n"), notify.SummaryLimit)
}

// cleanup returns the tree to the base branch. It runs on every path once
// a branch was created.
func (c *Controller) cleanup(ctx context.Context, s *session) {
	if s.branched {
		// Checkout must still run when ctx was cancelled mid-session.
		cctx := context.WithoutCancel(ctx)
		if err := c.deps.Git.Checkout(cctx, c.cfg.BaseBranch); err != nil {
			c.log(terminal.StyleWarning, "Failed to return to %s: %v", c.cfg.BaseBranch, err)
		}
	}

	if s.result.Outcome.Succeeded() {
		c.log(terminal.StyleSuccess, "Review cycle complete (%s)", s.result.Outcome)
	} else {
		c.log(terminal.StyleError, "Review cycle ended (%s)", s.result.Outcome)
	}
	c.deps.Logger.Rule()
}

func (c *Controller) log(style terminal.Style, format string, args ...any) {
	c.deps.Logger.Logf(style, format, args...)
}

func (c *Controller) notify(ctx context.Context, text string) {
	c.deps.Notifier.Send(ctx, text)
}
