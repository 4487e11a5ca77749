// Package schedule repeats a job once, on a fixed interval, or on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/richhaase/let-claude-code/internal/terminal"
)

// Job is one unit of scheduled work. Its return value reports success.
type Job func(ctx context.Context) bool

// Scheduler runs a job until its schedule ends or ctx is cancelled.
type Scheduler interface {
	Run(ctx context.Context, job Job) bool
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	// Sleep waits for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Once runs the job a single time.
type Once struct{}

func (Once) Run(ctx context.Context, job Job) bool {
	return job(ctx)
}

// Interval runs the job, then sleeps for whatever remains of Every, forever.
// A run that overruns the interval is followed immediately by the next.
type Interval struct {
	Every  time.Duration
	Clock  Clock
	Logger *terminal.Logger
}

// Run returns true when stopped by ctx cancellation.
func (s Interval) Run(ctx context.Context, job Job) bool {
	clock := clockOrDefault(s.Clock)
	s.Logger.Logf(terminal.StyleInfo, "Running reviews every %s. Press Ctrl+C to stop.", s.Every)

	for ctx.Err() == nil {
		start := clock.Now()
		job(ctx)
		elapsed := clock.Now().Sub(start)

		wait := s.Every - elapsed
		if wait <= 0 {
			s.Logger.Logf(terminal.StyleWarning, "Run took %s (longer than interval), continuing immediately",
				terminal.FormatDuration(elapsed))
			continue
		}
		if err := clock.Sleep(ctx, wait); err != nil {
			break
		}
	}
	return true
}

// Cron runs the job at each activation of a cron schedule.
type Cron struct {
	expr     string
	schedule cron.Schedule
	clock    Clock
	logger   *terminal.Logger
}

// ParseCron validates a standard five-field expression or descriptor such as "@hourly".
func ParseCron(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return sched, nil
}

// NewCron parses expr and returns a Cron scheduler.
func NewCron(expr string, clock Clock, logger *terminal.Logger) (*Cron, error) {
	sched, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}
	return &Cron{expr: expr, schedule: sched, clock: clockOrDefault(clock), logger: logger}, nil
}

// Run returns true when stopped by ctx cancellation.
func (s *Cron) Run(ctx context.Context, job Job) bool {
	s.logger.Logf(terminal.StyleInfo, "Running reviews on cron schedule: %s", s.expr)

	for ctx.Err() == nil {
		now := s.clock.Now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.Log("Cron schedule has no future activations, stopping", terminal.StyleWarning)
			return false
		}

		wait := next.Sub(now)
		s.logger.Logf(terminal.StyleDim, "Next run at %s, sleeping %.0fs", next.Format("2006-01-02 15:04:05"), wait.Seconds())
		if err := s.clock.Sleep(ctx, wait); err != nil {
			break
		}
		job(ctx)
	}
	return true
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return RealClock
	}
	return c
}
