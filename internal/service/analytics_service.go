package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/storage"
)

// AnalyticsService computes read-only spending summaries and pace alerts.
// All figures are recomputed from the expense rows on every call; nothing is
// cached or stored.
type AnalyticsService struct {
	store storage.Store
	cfg   Config
}

// NewAnalyticsService creates an AnalyticsService with the given storage
// backend and heuristics.
func NewAnalyticsService(store storage.Store, cfg Config) *AnalyticsService {
	return &AnalyticsService{store: store, cfg: cfg}
}

// MonthlySummary returns the user's current-month total and per-category
// breakdown, ordered by descending spend. Returns nil when the month holds
// no expenses.
func (s *AnalyticsService) MonthlySummary(ctx context.Context, userID int64, today time.Time) (*models.MonthlySummary, error) {
	since := dates.StartOfMonth(dates.Midnight(today))

	byCategory, err := s.store.CategoryTotalsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get category totals: %w", err)
	}
	if len(byCategory) == 0 {
		return nil, nil
	}

	total, err := s.store.SumExpensesSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return &models.MonthlySummary{Total: total, ByCategory: byCategory}, nil
}

// SpendingPace compares the current month's spend in one category against
// the average of prior months that had any spend there. Months with zero
// spend do not drag the average down.
func (s *AnalyticsService) SpendingPace(ctx context.Context, userID int64, category string, today time.Time) (*models.SpendingPace, error) {
	totals, err := s.store.CategoryMonthlyTotals(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly totals: %w", err)
	}

	currentKey := dates.MonthKey(dates.Midnight(today))
	current := totals[currentKey]

	sum := decimal.Zero
	months := 0
	for key, total := range totals {
		if key == currentKey || !total.IsPositive() {
			continue
		}
		sum = sum.Add(total)
		months++
	}

	average := decimal.Zero
	if months > 0 {
		average = sum.Div(decimal.NewFromInt(int64(months)))
	}
	return &models.SpendingPace{
		Category:          category,
		CurrentTotal:      current,
		HistoricalAverage: average,
	}, nil
}

// PaceAlert returns an alert when the category's spend progress outruns the
// month's progress by more than the configured margin. Without a positive
// historical average there is no baseline and no alert.
func (s *AnalyticsService) PaceAlert(ctx context.Context, userID int64, category string, today time.Time) (*models.PaceAlert, error) {
	pace, err := s.SpendingPace(ctx, userID, category, today)
	if err != nil {
		return nil, err
	}
	if !pace.HistoricalAverage.IsPositive() {
		return nil, nil
	}

	today = dates.Midnight(today)
	spendProgress := pace.CurrentTotal.Div(pace.HistoricalAverage)
	monthProgress := decimal.NewFromInt(int64(today.Day())).
		Div(decimal.NewFromInt(int64(dates.DaysInMonth(today.Year(), today.Month()))))

	if spendProgress.LessThanOrEqual(monthProgress.Add(s.cfg.PaceAlertMargin)) {
		return nil, nil
	}
	return &models.PaceAlert{
		Category:          category,
		CurrentTotal:      pace.CurrentTotal,
		HistoricalAverage: pace.HistoricalAverage,
		SpendProgress:     spendProgress,
		MonthProgress:     monthProgress,
	}, nil
}
