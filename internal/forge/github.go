package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/richhaase/let-claude-code/internal/domain"
	"github.com/richhaase/let-claude-code/internal/runner"
)

// GitHub drives pull requests with the gh CLI.
type GitHub struct {
	cliForge
}

var _ Forge = (*GitHub)(nil)

// NewGitHub creates a GitHub forge for the repository at dir.
func NewGitHub(r runner.Runner, dir string, opts Options) *GitHub {
	return &GitHub{cliForge: newCLIForge("gh", r, dir, opts)}
}

func (g *GitHub) Kind() string { return KindGitHub }

func (g *GitHub) Create(ctx context.Context, opts CreateOpts) (domain.ChangeRequest, error) {
	args := []string{"pr", "create",
		"--title", opts.Title,
		"--body", opts.Body,
		"--base", opts.BaseBranch,
	}
	return g.create(ctx, opts, args, isGitHubPRURL)
}

func (g *GitHub) Merge(ctx context.Context, number string) error {
	res := g.run(ctx, "pr", "merge", number, "--squash", "--delete-branch")
	if !res.OK {
		return commandError(fmt.Sprintf("merge PR #%s", number), res)
	}
	return nil
}

func (g *GitHub) Commands(number string) Commands {
	return Commands{
		Ref:      "PR #" + number,
		View:     "gh pr view " + number,
		Diff:     "gh pr diff " + number,
		Checkout: "gh pr checkout " + number,
		Review:   "gh pr review",
	}
}

func isGitHubPRURL(line string) bool {
	return strings.Contains(line, "github.com") && strings.Contains(line, "/pull/")
}
