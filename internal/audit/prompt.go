package audit

import (
	"fmt"
	"strings"

	"github.com/richhaase/let-claude-code/internal/runner"
)

// MaxContentChars caps the amount of target text sent to the model.
const MaxContentChars = 30000

const promptFormat = `You are a code auditor working with Claude Code (an AI coding assistant).

Your job is to:
1. Review the code below
2. Identify issues, bugs, improvements, or areas that need work
3. Generate SPECIFIC, ACTIONABLE instructions for Claude Code to execute
%s
%s

Code to audit:
` + "```" + `
%s
` + "```" + `

Respond in this EXACT format:

ISSUES_FOUND: YES or NO
CONTINUE: YES or NO

INSTRUCTIONS_FOR_CLAUDE:
(If CONTINUE is YES, write detailed, specific instructions for what Claude should do.
Make it actionable - "Add error handling to function X", "Fix the bug in line Y", etc.
If CONTINUE is NO or ISSUES_FOUND is NO, write "N/A")

Be specific and direct. Claude will execute these instructions.
`

// BuildPrompt returns the audit request for one iteration.
func BuildPrompt(content string, iteration int, goal string) string {
	var focus string
	if goal = strings.TrimSpace(goal); goal != "" {
		focus = fmt.Sprintf("\n**AUDIT FOCUS**: %s\nPrioritize finding issues related to this goal.\n", goal)
	}
	note := fmt.Sprintf("This is iteration %d. Previous iterations may have made changes.", iteration)
	return fmt.Sprintf(promptFormat, focus, note, runner.Truncate(content, MaxContentChars))
}
