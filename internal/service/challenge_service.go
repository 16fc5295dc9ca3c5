package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/metrics"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/storage"
)

// ChallengeService runs the no-spend challenge state machine. A challenge is
// active from start through end date inclusive and leaves that state exactly
// once, into failed, completed or cancelled.
type ChallengeService struct {
	store storage.Store
}

// NewChallengeService creates a ChallengeService with the given storage
// backend.
func NewChallengeService(store storage.Store) *ChallengeService {
	return &ChallengeService{store: store}
}

// Start begins a no-spend challenge for the category, running durationDays
// from today. Any currently active challenge is cancelled in the same write.
func (s *ChallengeService) Start(ctx context.Context, userID int64, category string, durationDays int, today time.Time) (*models.Challenge, error) {
	if durationDays < 1 {
		return nil, fmt.Errorf("challenge duration %d must be at least one day: %w", durationDays, ErrInvalidInput)
	}

	today = dates.Midnight(today)
	challenge := &models.Challenge{
		UserID:         userID,
		Type:           models.ChallengeNoSpend,
		TargetCategory: category,
		StartDate:      today,
		EndDate:        today.AddDate(0, 0, durationDays),
		Status:         models.ChallengeActive,
	}
	if err := s.store.CreateChallenge(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to start challenge: %w", err)
	}

	slog.Info("challenge started",
		"user_id", userID,
		"category", category,
		"end_date", challenge.EndDate.Format(dates.Format),
	)
	return challenge, nil
}

// CheckViolation fails the user's active challenge when an expense lands in
// its target category within the challenge window. Returns the failed
// challenge, or nil when no challenge was violated.
func (s *ChallengeService) CheckViolation(ctx context.Context, userID int64, category string, today time.Time) (*models.Challenge, error) {
	challenge, err := s.store.ActiveChallenge(ctx, userID, category, dates.Midnight(today))
	if err != nil {
		return nil, fmt.Errorf("failed to look up active challenge: %w", err)
	}
	if challenge == nil {
		return nil, nil
	}

	if err := s.store.UpdateChallengeStatus(ctx, challenge.ID, models.ChallengeFailed); err != nil {
		return nil, fmt.Errorf("failed to fail challenge: %w", err)
	}
	challenge.Status = models.ChallengeFailed

	metrics.ChallengesFailed.Inc()
	slog.Info("challenge failed",
		"user_id", userID,
		"category", category,
		"challenge_id", challenge.ID,
	)
	return challenge, nil
}

// SweepCompleted transitions every active challenge whose end date has
// passed to completed and returns the survivors. Idempotent: a challenge is
// returned by exactly one sweep.
func (s *ChallengeService) SweepCompleted(ctx context.Context, today time.Time) ([]models.Challenge, error) {
	completed, err := s.store.CompleteExpiredChallenges(ctx, dates.Midnight(today))
	if err != nil {
		return nil, fmt.Errorf("failed to sweep challenges: %w", err)
	}
	if len(completed) > 0 {
		metrics.ChallengesCompleted.Add(float64(len(completed)))
		slog.Info("challenges completed", "count", len(completed))
	}
	return completed, nil
}

// ActiveChallenges lists the user's active challenges.
func (s *ChallengeService) ActiveChallenges(ctx context.Context, userID int64) ([]models.Challenge, error) {
	challenges, err := s.store.ActiveChallenges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}
