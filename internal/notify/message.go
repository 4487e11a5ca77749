package notify

import (
	"fmt"
	"regexp"
	"strings"
)

// SummaryLimit is the default length CleanSummary truncates to.
const SummaryLimit = 500

var blankRuns = regexp.MustCompile(`\n{3,}`)

var markdownEscaper = strings.NewReplacer(`_`, `\_`, `*`, `\*`, "`", "\\`")

// CleanSummary prepares free-form assistant output for a Markdown message:
// runs of blank lines collapse to one, text longer than limit is cut and
// suffixed with "...", and Markdown control characters are escaped.
func CleanSummary(text string, limit int) string {
	text = blankRuns.ReplaceAllString(text, "\n\n")
	if r := []rune(text); len(r) > limit {
		text = string(r[:limit]) + "..."
	}
	return markdownEscaper.Replace(text)
}

// Title returns the display form of an assistant name, e.g. "Claude".
func Title(name string) string {
	if name == "" {
		return "Assistant"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func BranchFailed() string {
	return "⚠️ *Auto-Review Failed*\n\nCould not create branch."
}

func AssistantFailed(assistant string) string {
	return fmt.Sprintf("⚠️ *Auto-Review Failed*\n\n%s failed to complete review.", Title(assistant))
}

func NoChanges() string {
	return "✅ *Auto-Review Complete*\n\nNo bugs found. Code looks good!"
}

func CreateFailed() string {
	return "⚠️ *Auto-Review Failed*\n\nCould not create PR."
}

func Merged(iterations int, url, summary string) string {
	return fmt.Sprintf("✅ *Auto-Review Merged*\n\nApproved after %d review(s).\n🔗 %s\n\n*Changes:*\n%s",
		iterations, url, summary)
}

func MergeFailed(url, summary string) string {
	return fmt.Sprintf("⚠️ *Auto-Review: Merge Failed*\n\nPR approved but merge failed.\n🔗 %s\n\n*Changes:*\n%s",
		url, summary)
}

func Ready(iterations int, url, summary string) string {
	return fmt.Sprintf("✅ *Auto-Review: PR Ready*\n\nApproved after %d review(s). Ready for manual merge.\n🔗 %s\n\n*Changes:*\n%s",
		iterations, url, summary)
}

func Fixing(iteration, limit int, url, assistant string) string {
	return fmt.Sprintf("🔄 *Auto-Review: Fixing feedback*\n\nIteration %d/%d\n🔗 %s\n\nReviewer requested changes. Spawning fixer %s...",
		iteration, limit, url, Title(assistant))
}

func FixerFailed(iteration int, url string) string {
	return fmt.Sprintf("⚠️ *Auto-Review: Fixer Failed*\n\nCould not address reviewer feedback on iteration %d.\n🔗 %s\n\nManual intervention may be needed.",
		iteration, url)
}

func MaxIterations(limit int, url, summary string) string {
	return fmt.Sprintf("⚠️ *Auto-Review: Max Iterations Reached*\n\nPR not approved after %d rounds.\n🔗 %s\n\n*Summary:*\n%s\n\nManual review recommended.",
		limit, url, summary)
}
