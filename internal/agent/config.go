package agent

import "time"

// Timeouts bounds each kind of assistant invocation.
type Timeouts struct {
	// Change covers the initial code-modification run.
	Change time.Duration
	// Review covers one reviewer pass over a change request.
	Review time.Duration
	// Fix covers one fixer pass addressing review feedback.
	Fix time.Duration
}

// DefaultTimeouts are the built-in assistant timeouts.
var DefaultTimeouts = Timeouts{
	Change: time.Hour,
	Review: 10 * time.Minute,
	Fix:    20 * time.Minute,
}
