package audit

import "strings"

// Response markers.
const (
	markerIssues       = "ISSUES_FOUND:"
	markerContinue     = "CONTINUE:"
	markerInstructions = "INSTRUCTIONS_FOR_CLAUDE:"
	notApplicable      = "N/A"
)

// Verdict is the parsed answer of the reasoning model.
type Verdict struct {
	IssuesFound  bool
	Continue     bool
	Instructions string
}

// Actionable reports whether the verdict asks for another assistant run.
func (v Verdict) Actionable() bool {
	return v.IssuesFound && v.Continue && v.Instructions != ""
}

// ParseResponse scans text line by line for the three response fields.
// Everything after the instructions marker, minus "N/A" lines, becomes the
// instructions. A response without markers parses to the zero Verdict.
func ParseResponse(text string) Verdict {
	var (
		v              Verdict
		inInstructions bool
		lines          []string
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, markerIssues):
			v.IssuesFound = yes(trimmed[len(markerIssues):])
			inInstructions = false
		case strings.HasPrefix(trimmed, markerContinue):
			v.Continue = yes(trimmed[len(markerContinue):])
			inInstructions = false
		case strings.HasPrefix(trimmed, markerInstructions):
			inInstructions = true
			rest := strings.TrimSpace(trimmed[len(markerInstructions):])
			if rest != "" && !strings.EqualFold(rest, notApplicable) {
				lines = append(lines, rest)
			}
		case inInstructions:
			if trimmed != "" && !strings.EqualFold(trimmed, notApplicable) {
				lines = append(lines, line)
			}
		}
	}

	instructions := strings.TrimSpace(strings.Join(lines, "\n"))
	if !strings.EqualFold(instructions, notApplicable) {
		v.Instructions = instructions
	}
	return v
}

func yes(value string) bool {
	return strings.Contains(strings.ToUpper(value), "YES")
}
