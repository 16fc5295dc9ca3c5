// Package scheduler drives the periodic background work: materializing due
// recurring plans and completing expired challenges.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/service"
)

// DefaultInterval is how often the background pass runs. Both jobs are
// idempotent, so running more often than once a day is harmless.
const DefaultInterval = 6 * time.Hour

// Notifier is told about challenges the sweep just completed, so the
// transport can congratulate the user. A nil Notifier is fine; completions
// are then only logged.
type Notifier interface {
	ChallengeCompleted(ctx context.Context, challenge models.Challenge)
}

// Scheduler runs the recurring materialization and challenge sweep on a
// fixed interval.
type Scheduler struct {
	recurring  *service.RecurringService
	challenges *service.ChallengeService
	notifier   Notifier
	interval   time.Duration
}

// New creates a Scheduler. A non-positive interval falls back to
// DefaultInterval.
func New(recurring *service.RecurringService, challenges *service.ChallengeService, notifier Notifier, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		recurring:  recurring,
		challenges: challenges,
		notifier:   notifier,
		interval:   interval,
	}
}

// Run executes one pass immediately, then once per interval until the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("scheduler started", "interval", s.interval)

	s.runOnce(ctx, time.Now().UTC())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx, time.Now().UTC())
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, now time.Time) {
	inserted, err := s.recurring.MaterializeDuePlans(ctx, now)
	if err != nil {
		slog.Error("recurring materialization failed", "error", err)
	} else if inserted > 0 {
		slog.Info("recurring pass finished", "inserted", inserted)
	}

	completed, err := s.challenges.SweepCompleted(ctx, now)
	if err != nil {
		slog.Error("challenge sweep failed", "error", err)
		return
	}
	for _, challenge := range completed {
		if s.notifier != nil {
			s.notifier.ChallengeCompleted(ctx, challenge)
		}
	}
}
