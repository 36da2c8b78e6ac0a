// Package scheduler runs the weekly rollover: every Monday at 00:01 in
// the canonical zone, next-week todos due inside the new week move to
// the current list and completed current todos are archived.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type Rollover interface {
	RolloverWeek(ctx context.Context, now time.Time) (transferred, archived int, err error)
}

type Scheduler struct {
	log *slog.Logger
	svc Rollover
	loc *time.Location
}

func New(log *slog.Logger, svc Rollover, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{log: log, svc: svc, loc: loc}
}

// Run blocks until ctx is cancelled, firing the rollover at each
// Monday 00:01 boundary.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := NextRun(time.Now().In(s.loc))
		s.log.Debug("weekly rollover scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case now := <-timer.C:
			transferred, archived, err := s.svc.RolloverWeek(ctx, now)
			if err != nil {
				s.log.Error("weekly rollover failed", "error", err)
				continue
			}
			s.log.Info("weekly rollover finished",
				"transferred", transferred, "archived", archived)
		}
	}
}

// NextRun returns the next Monday 00:01 strictly after now, in now's
// location.
func NextRun(now time.Time) time.Time {
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, now.Location()).
		AddDate(0, 0, days)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
