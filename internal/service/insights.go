package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/savieapp/savie/internal/models"
)

// Insight is what the engine wants the user told right after an expense is
// recorded. At most one field is set; the transport renders it.
type Insight struct {
	// Violation is the challenge the expense just failed.
	Violation *models.Challenge

	// Pace warns that category spending is outrunning the month.
	Pace *models.PaceAlert

	// RecurringCandidate is an expense that looks like a monthly
	// subscription the user may want to confirm as a plan.
	RecurringCandidate *models.Expense
}

// InsightService runs the post-commit checks after each recorded expense.
// Insights are advisory: the expense is already committed, so a failure in
// any check is logged and degrades to no insight rather than surfacing.
type InsightService struct {
	challenges *ChallengeService
	analytics  *AnalyticsService
	recurring  *RecurringService
}

// NewInsightService creates an InsightService over the three engines.
func NewInsightService(challenges *ChallengeService, analytics *AnalyticsService, recurring *RecurringService) *InsightService {
	return &InsightService{
		challenges: challenges,
		analytics:  analytics,
		recurring:  recurring,
	}
}

// AfterExpense checks the committed expense against the user's active
// challenge, the category's spending pace and the recurring-pattern
// detector, in that order. A challenge violation short-circuits the rest.
// Returns nil when there is nothing worth saying.
func (s *InsightService) AfterExpense(ctx context.Context, expense *models.Expense, today time.Time) *Insight {
	violation, err := s.challenges.CheckViolation(ctx, expense.UserID, expense.Category, today)
	if err != nil {
		slog.Error("violation check failed", "user_id", expense.UserID, "error", err)
	}
	if violation != nil {
		return &Insight{Violation: violation}
	}

	pace, err := s.analytics.PaceAlert(ctx, expense.UserID, expense.Category, today)
	if err != nil {
		slog.Error("pace check failed", "user_id", expense.UserID, "error", err)
	}
	if pace != nil {
		return &Insight{Pace: pace}
	}

	recurring, err := s.recurring.DetectPattern(ctx, expense, today)
	if err != nil {
		slog.Error("recurring check failed", "user_id", expense.UserID, "error", err)
	}
	if recurring {
		return &Insight{RecurringCandidate: expense}
	}
	return nil
}
