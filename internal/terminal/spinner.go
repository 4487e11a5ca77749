package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

const spinnerInterval = 200 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// PhaseSpinner animates a single waiting phase on a terminal line.
type PhaseSpinner struct {
	out   io.Writer
	isTTY bool
	tag   string
	label string
	start time.Time
}

// NewPhaseSpinner creates a spinner on stderr.
func NewPhaseSpinner(tag, label string) *PhaseSpinner {
	return NewPhaseSpinnerTo(os.Stderr, IsStderrTTY(), tag, label)
}

// NewPhaseSpinnerTo creates a spinner writing to w. Nothing is drawn unless
// isTTY is set.
func NewPhaseSpinnerTo(w io.Writer, isTTY bool, tag, label string) *PhaseSpinner {
	return &PhaseSpinner{out: w, isTTY: isTTY, tag: tag, label: label}
}

// Run runs the phase spinner until the context is cancelled.
func (s *PhaseSpinner) Run(ctx context.Context) {
	if !s.isTTY {
		<-ctx.Done()
		return
	}

	s.start = time.Now()
	idx := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final := fmt.Sprintf("\r%s %s✓%s %s %s(%s)%s",
				Tag(s.tag, StyleSuccess), Color(Green), Color(Reset), s.label,
				Color(Dim), FormatDuration(time.Since(s.start)), Color(Reset))
			fmt.Fprint(s.out, final+"          \n")
			return

		case <-ticker.C:
			frame := string(spinnerFrames[idx%len(spinnerFrames)])
			line := fmt.Sprintf("\r%s %s%s%s %s %s(%s)%s",
				Tag(s.tag, StyleInfo), Color(Cyan), frame, Color(Reset), s.label,
				Color(Dim), FormatDuration(time.Since(s.start)), Color(Reset))
			fmt.Fprint(s.out, line+"          ")
			idx++
		}
	}
}

// Wrap runs fn while the spinner is shown and waits for the final line to
// be drawn before returning.
func (s *PhaseSpinner) Wrap(ctx context.Context, fn func() error) error {
	sctx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		s.Run(sctx)
		close(done)
	}()
	err := fn()
	stop()
	<-done
	return err
}
