package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/richhaase/let-claude-code/internal/domain"
	"github.com/richhaase/let-claude-code/internal/runner"
)

// GitLab drives merge requests with the glab CLI.
type GitLab struct {
	cliForge
}

var _ Forge = (*GitLab)(nil)

// NewGitLab creates a GitLab forge for the repository at dir.
func NewGitLab(r runner.Runner, dir string, opts Options) *GitLab {
	return &GitLab{cliForge: newCLIForge("glab", r, dir, opts)}
}

func (g *GitLab) Kind() string { return KindGitLab }

func (g *GitLab) Create(ctx context.Context, opts CreateOpts) (domain.ChangeRequest, error) {
	args := []string{"mr", "create",
		"--title", opts.Title,
		"--description", opts.Body,
		"--target-branch", opts.BaseBranch,
		"--yes",
	}
	return g.create(ctx, opts, args, isGitLabMRURL)
}

func (g *GitLab) Merge(ctx context.Context, number string) error {
	res := g.run(ctx, "mr", "merge", number, "--squash", "--remove-source-branch", "--yes")
	if !res.OK {
		return commandError(fmt.Sprintf("merge MR !%s", number), res)
	}
	return nil
}

func (g *GitLab) Commands(number string) Commands {
	return Commands{
		Ref:      "MR !" + number,
		View:     "glab mr view " + number,
		Diff:     "glab mr diff " + number,
		Checkout: "glab mr checkout " + number,
		Review:   "glab mr approve",
	}
}

// Self-hosted instances use arbitrary hostnames, so only the path is checked.
func isGitLabMRURL(line string) bool {
	return strings.HasPrefix(line, "http") && strings.Contains(line, "/-/merge_requests/")
}
