package domain

import "time"

// Outcome is the terminal state of one review session.
type Outcome int

const (
	// OutcomeSkipped means the lock was held by another run.
	OutcomeSkipped Outcome = iota
	// OutcomeFailed means the session aborted before a change request was reviewed.
	OutcomeFailed
	// OutcomeNoChanges means the assistant produced no commits ahead of base.
	OutcomeNoChanges
	// OutcomeMerged means the change request was approved and merged.
	OutcomeMerged
	// OutcomeMergeFailed means the change request was approved but the merge failed.
	OutcomeMergeFailed
	// OutcomeReady means the change request was approved and left for a manual merge.
	OutcomeReady
	// OutcomeUnapproved means the iteration cap was reached without approval.
	OutcomeUnapproved
	// OutcomeFixerFailed means a fixer invocation failed and the loop stopped early.
	OutcomeFixerFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeNoChanges:
		return "no-changes"
	case OutcomeMerged:
		return "merged"
	case OutcomeMergeFailed:
		return "merge-failed"
	case OutcomeReady:
		return "ready"
	case OutcomeUnapproved:
		return "unapproved"
	case OutcomeFixerFailed:
		return "fixer-failed"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the outcome counts as a successful run.
// A skipped run is not an error, but it did not do any work either.
func (o Outcome) Succeeded() bool {
	switch o {
	case OutcomeNoChanges, OutcomeMerged, OutcomeMergeFailed, OutcomeReady, OutcomeUnapproved, OutcomeFixerFailed:
		return true
	default:
		return false
	}
}

// ChangeRequest is a hosted pull or merge request.
type ChangeRequest struct {
	Number string
	URL    string
	Title  string
	Body   string
}

// SessionResult summarizes one run of the review loop.
type SessionResult struct {
	Outcome       Outcome
	Branch        string
	ChangeRequest *ChangeRequest
	Iterations    int
	// Ambiguous is set when any reviewer output contained both approval and rejection phrases.
	Ambiguous bool
	Duration  time.Duration
}

// OK reports whether the session should be reported as a success.
func (r SessionResult) OK() bool {
	return r.Outcome.Succeeded()
}
