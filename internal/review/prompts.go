package review

import (
	"fmt"
	"time"

	"github.com/richhaase/let-claude-code/internal/forge"
	"github.com/richhaase/let-claude-code/internal/runner"
)

// ReviewerPrompt asks the assistant to review a change request and state a verdict.
func ReviewerPrompt(cmds forge.Commands) string {
	return fmt.Sprintf(`You are a code reviewer. Please review %[1]s.

1. First, get the change details:
   - Run: %[2]s
   - Run: %[3]s

2. Review the changes critically:
   - Are the changes correct and well-implemented?
   - Do they introduce any new bugs or issues?
   - Are the commit messages clear?
   - Is the code style consistent?

3. Make your decision and state it clearly:
   - If the changes look good, say "APPROVED" and explain why it's ready to merge
   - If changes are needed, say "CHANGES_REQUESTED" and list the specific issues

Do NOT use the %[4]s command (it won't work for self-review).
Just output your decision clearly: either "APPROVED" or "CHANGES_REQUESTED" followed by your reasoning.

Be thorough but fair. Approve if the changes are net positive, even if not perfect.
When requesting changes, be SPECIFIC about what needs to be fixed.`,
		cmds.Ref, cmds.View, cmds.Diff, cmds.Review)
}

// FixerPrompt asks the assistant to address reviewer feedback and push the fixes.
func FixerPrompt(cmds forge.Commands, feedback string) string {
	return fmt.Sprintf(`A code reviewer has requested changes on %[1]s. Please address their feedback.

**Reviewer Feedback:**
%[2]s

**Your task:**
1. First, check out the branch and view the current code:
   - Run: %[3]s
   - Review the files mentioned in the feedback

2. Address EACH issue the reviewer mentioned:
   - Make the necessary code changes
   - Ensure you don't break existing functionality

3. Commit and push your fixes:
   - Commit with a clear message like "fix: address review feedback - [what you fixed]"
   - Push the changes: git push

4. Provide a summary of what you fixed.

IMPORTANT: Actually make the fixes, don't just describe them.`,
		cmds.Ref, feedback, cmds.Checkout)
}

const bodySummaryLimit = 3000

// Title returns the change request title.
func Title(modeNames string, now time.Time) string {
	return fmt.Sprintf("Auto-improvement: %s (%s)", modeNames, now.Format("2006-01-02"))
}

// Body returns the change request description.
func Body(modeNames, summary string) string {
	return fmt.Sprintf(`## Automated Code Improvement

This change was created automatically by the auto-review daemon.

### Improvement Modes Applied
%s

### Summary of Changes
%s

---
*This change requires review by a second assistant pass before merging.*
`, modeNames, runner.Truncate(summary, bodySummaryLimit))
}
