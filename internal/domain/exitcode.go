// Package domain provides core types shared by the review and audit tools.
package domain

// ExitCode represents the process exit status.
type ExitCode int

const (
	// ExitSuccess indicates a successful run, including runs with nothing to change.
	ExitSuccess ExitCode = 0
	// ExitFailure indicates the run failed or was given invalid input.
	ExitFailure ExitCode = 1
	// ExitInterrupted indicates the run was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
