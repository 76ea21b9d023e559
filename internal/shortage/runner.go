package shortage

import (
	"context"
	"log/slog"
	"time"
)

// Runner periodically fires automatic checks for every schedule that still
// has upcoming production days. One schedule failing does not stop the loop.
type Runner struct {
	checker   *Checker
	schedules ScheduleRepository
	interval  time.Duration
	log       *slog.Logger
}

// NewRunner builds an automatic check runner.
func NewRunner(checker *Checker, schedules ScheduleRepository, interval time.Duration, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{checker: checker, schedules: schedules, interval: interval, log: log}
}

// Run blocks until the context is cancelled, firing a round of checks every
// interval. The first round runs immediately.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("automatic inventory checks started", "interval", r.interval.String())
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("automatic inventory checks stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	// Midnight boundary: a schedule producing today still counts as upcoming.
	from := time.Now().Truncate(24 * time.Hour)

	ids, err := r.schedules.UpcomingScheduleIDs(ctx, from)
	if err != nil {
		r.log.Error("list upcoming schedules failed", "error", err)
		return
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.checker.RunCheck(ctx, id, ""); err != nil {
			r.log.Error("automatic inventory check failed", "schedule", id, "error", err)
		}
	}
}
