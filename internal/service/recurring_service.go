package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/metrics"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/money"
	"github.com/savieapp/savie/internal/storage"
)

// RecurringService detects repeated monthly expenses and materializes
// confirmed plans into ledger rows.
type RecurringService struct {
	store storage.Store
	cfg   Config
}

// NewRecurringService creates a RecurringService with the given storage
// backend and heuristics.
func NewRecurringService(store storage.Store, cfg Config) *RecurringService {
	return &RecurringService{store: store, cfg: cfg}
}

// DetectPattern reports whether the expense looks like a monthly recurrence:
// no plan exists for its exact description, and enough of the recent calendar
// months hold a same-description expense within the amount tolerance. The
// expense's own month counts.
func (s *RecurringService) DetectPattern(ctx context.Context, expense *models.Expense, today time.Time) (bool, error) {
	plan, err := s.store.GetRecurringPlan(ctx, expense.UserID, expense.Description)
	if err != nil {
		return false, fmt.Errorf("failed to check existing plan: %w", err)
	}
	if plan != nil {
		return false, nil
	}

	min, max := s.amountBand(expense.Amount)
	since := dates.StartOfMonth(dates.AddMonths(today, -s.cfg.RecurringLookbackMonths))

	months, err := s.store.MonthsWithExpense(ctx, expense.UserID, expense.Description, min, max, since)
	if err != nil {
		return false, fmt.Errorf("failed to count matching months: %w", err)
	}
	return months >= s.cfg.MinRecurringMonths, nil
}

// AddRecurringPlan persists a user-confirmed plan. Reports false without
// error when a plan for that description already exists.
func (s *RecurringService) AddRecurringPlan(ctx context.Context, plan *models.RecurringPlan) (bool, error) {
	if plan.DayOfMonth < 1 || plan.DayOfMonth > 31 {
		return false, fmt.Errorf("day of month %d out of range: %w", plan.DayOfMonth, ErrInvalidInput)
	}
	if !plan.Amount.IsPositive() {
		return false, fmt.Errorf("recurring amount %s must be positive: %w", plan.Amount, ErrInvalidInput)
	}

	inserted, err := s.store.CreateRecurringPlan(ctx, plan)
	if err != nil {
		return false, fmt.Errorf("failed to create recurring plan: %w", err)
	}
	if inserted {
		slog.Info("recurring plan confirmed",
			"user_id", plan.UserID,
			"description", plan.Description,
			"day", plan.DayOfMonth,
		)
	}
	return inserted, nil
}

// MaterializeDuePlans inserts one expense for every plan triggering today,
// skipping plans that already produced an expense this calendar month. Safe
// to call any number of times per day. Returns how many expenses were
// inserted.
func (s *RecurringService) MaterializeDuePlans(ctx context.Context, today time.Time) (int, error) {
	today = dates.Midnight(today)
	plans, err := s.store.DuePlans(ctx, today.Day(), dates.DaysInMonth(today.Year(), today.Month()))
	if err != nil {
		return 0, fmt.Errorf("failed to list due plans: %w", err)
	}

	monthKey := dates.MonthKey(today)
	inserted := 0
	for _, plan := range plans {
		exists, err := s.store.HasExpenseInMonth(ctx, plan.UserID, plan.Description, monthKey)
		if err != nil {
			return inserted, fmt.Errorf("failed to check month expense: %w", err)
		}
		if exists {
			continue
		}

		expense := &models.Expense{
			UserID:      plan.UserID,
			Amount:      plan.Amount,
			Description: plan.Description,
			Category:    plan.Category,
			Date:        today,
		}
		if err := s.store.CreateExpense(ctx, expense); err != nil {
			return inserted, fmt.Errorf("failed to materialize plan %s: %w", plan.ID, err)
		}
		inserted++
		metrics.PlansMaterialized.Inc()
		slog.Info("recurring expense materialized",
			"user_id", plan.UserID,
			"description", plan.Description,
			"amount", plan.Amount.String(),
		)
	}
	return inserted, nil
}

func (s *RecurringService) amountBand(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return money.ToleranceBand(amount, s.cfg.AmountTolerance)
}
