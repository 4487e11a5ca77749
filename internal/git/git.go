// Package git drives the git CLI for the review loop's branch workflow.
package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/richhaase/let-claude-code/internal/runner"
)

// DefaultTimeout bounds each git command.
const DefaultTimeout = 60 * time.Second

// Driver runs git commands in one working tree.
type Driver struct {
	runner  runner.Runner
	dir     string
	timeout time.Duration
}

// New creates a Driver for the repository at dir.
// A zero timeout selects DefaultTimeout.
func New(r runner.Runner, dir string, timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Driver{runner: r, dir: dir, timeout: timeout}
}


func (d *Driver) run(ctx context.Context, args ...string) runner.Result {
	return d.runner.Run(ctx, runner.Command{
		Name:    "git",
		Args:    args,
		Dir:     d.dir,
		Timeout: d.timeout,
	})
}

// commandError formats a failed result the same way for every operation.
func commandError(op string, res runner.Result) error {
	if output := strings.TrimSpace(res.Output); output != "" && !res.TimedOut {
		return fmt.Errorf("failed to %s (%s): %w", op, output, res.Err())
	}
	return fmt.Errorf("failed to %s: %w", op, res.Err())
}

// Checkout switches the working tree to ref.
func (d *Driver) Checkout(ctx context.Context, ref string) error {
	if res := d.run(ctx, "checkout", ref); !res.OK {
		return commandError(fmt.Sprintf("checkout '%s'", ref), res)
	}
	return nil
}

// Pull rebases the current branch onto its upstream.
func (d *Driver) Pull(ctx context.Context) error {
	if res := d.run(ctx, "pull", "--rebase"); !res.OK {
		return commandError("pull latest changes", res)
	}
	return nil
}

// CreateBranch creates name from HEAD and checks it out.
func (d *Driver) CreateBranch(ctx context.Context, name string) error {
	if res := d.run(ctx, "checkout", "-b", name); !res.OK {
		return commandError(fmt.Sprintf("create branch '%s'", name), res)
	}
	return nil
}

// HasChanges reports whether the working tree has uncommitted changes.
// A failing status command counts as no changes.
func (d *Driver) HasChanges(ctx context.Context) bool {
	res := d.run(ctx, "status", "--porcelain")
	return res.OK && strings.TrimSpace(res.Output) != ""
}

// CommitsAhead returns the number of commits on HEAD that are not on base.
func (d *Driver) CommitsAhead(ctx context.Context, base string) (int, error) {
	res := d.run(ctx, "rev-list", "--count", base+"..HEAD")
	if !res.OK {
		return 0, commandError(fmt.Sprintf("count commits ahead of '%s'", base), res)
	}
	n, err := strconv.Atoi(strings.TrimSpace(res.Output))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", strings.TrimSpace(res.Output), err)
	}
	return n, nil
}


// RemoteURL returns the fetch URL of the named remote.
func (d *Driver) RemoteURL(ctx context.Context, remote string) (string, error) {
	res := d.run(ctx, "remote", "get-url", remote)
	if !res.OK {
		return "", commandError(fmt.Sprintf("get url of remote '%s'", remote), res)
	}
	return strings.TrimSpace(res.Output), nil
}
