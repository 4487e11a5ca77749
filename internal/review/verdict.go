package review

import (
	"regexp"
	"strings"

	"github.com/richhaase/let-claude-code/internal/runner"
)

// RejectionMarker is the phrase a reviewer uses to request changes.
const RejectionMarker = "CHANGES_REQUESTED"

// approvalPhrases are matched case-insensitively anywhere in reviewer output.
var approvalPhrases = []string{"approved", "lgtm", "ready to merge", "recommend merging"}

const (
	feedbackLimit         = 1000
	feedbackFallbackLines = 20
)

var feedbackPattern = regexp.MustCompile(`(?is)` + RejectionMarker + `[:\s]*(.+)`)

// Verdict is the reviewer's decision as read from its free-form output.
type Verdict struct {
	Approved bool
	// Ambiguous is set when the output contains both an approval phrase and
	// the rejection marker. Such output is never treated as approved.
	Ambiguous bool
	Feedback  string
}

// DetectVerdict reads the reviewer's decision from output. Approval requires
// at least one approval phrase and no rejection marker.
func DetectVerdict(output string) Verdict {
	lower := strings.ToLower(output)

	approving := false
	for _, p := range approvalPhrases {
		if strings.Contains(lower, p) {
			approving = true
			break
		}
	}
	rejecting := strings.Contains(lower, strings.ToLower(RejectionMarker))

	return Verdict{
		Approved:  approving && !rejecting,
		Ambiguous: approving && rejecting,
		Feedback:  ExtractFeedback(output),
	}
}

// ExtractFeedback returns the text after the rejection marker, capped at
// 1000 characters, or the last 20 lines when the marker is absent.
func ExtractFeedback(output string) string {
	if m := feedbackPattern.FindStringSubmatch(output); m != nil {
		return runner.Truncate(strings.TrimSpace(m[1]), feedbackLimit)
	}
	return runner.LastLines(strings.TrimSpace(output), feedbackFallbackLines)
}
