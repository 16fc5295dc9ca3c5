package service

import (
	"context"
	"testing"
	"time"

	"github.com/savieapp/savie/internal/dates"
)

func TestAfterExpense(t *testing.T) {
	store := newTestStore(t)
	cfg := DefaultConfig()
	challenges := NewChallengeService(store)
	svc := NewInsightService(challenges, NewAnalyticsService(store, cfg), NewRecurringService(store, cfg))
	ctx := context.Background()

	t.Run("nothing to say for an ordinary expense", func(t *testing.T) {
		expense := seedExpense(t, store, 1, "Snack", "10.00", dates.Day(2026, time.July, 3))
		if insight := svc.AfterExpense(ctx, expense, expense.Date); insight != nil {
			t.Errorf("expected nil insight, got %+v", insight)
		}
	})

	t.Run("challenge violation wins over everything else", func(t *testing.T) {
		today := dates.Day(2026, time.July, 5)
		if _, err := challenges.Start(ctx, 1, "🎉 Leisure", 7, today); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		expense := seedExpense(t, store, 1, "Bar", "50.00", today)
		insight := svc.AfterExpense(ctx, expense, today)
		if insight == nil || insight.Violation == nil {
			t.Fatalf("insight = %+v, want a violation", insight)
		}
		if insight.Pace != nil || insight.RecurringCandidate != nil {
			t.Errorf("violation should short-circuit, got %+v", insight)
		}
	})

	t.Run("pace alert when the month is outrun", func(t *testing.T) {
		seedExpense(t, store, 2, "Bar", "100.00", dates.Day(2026, time.May, 10))
		seedExpense(t, store, 2, "Bar", "100.00", dates.Day(2026, time.June, 10))

		today := dates.Day(2026, time.July, 4)
		expense := seedExpense(t, store, 2, "Bar", "95.00", today)
		insight := svc.AfterExpense(ctx, expense, today)
		if insight == nil || insight.Pace == nil {
			t.Fatalf("insight = %+v, want a pace alert", insight)
		}
	})

	t.Run("recurring suggestion for a repeated subscription", func(t *testing.T) {
		seedExpense(t, store, 3, "Netflix", "39.90", dates.Day(2026, time.June, 25))

		// Late in the month the pace check stays quiet and the
		// recurring detector gets its turn.
		today := dates.Day(2026, time.July, 25)
		expense := seedExpense(t, store, 3, "Netflix", "39.90", today)
		insight := svc.AfterExpense(ctx, expense, today)
		if insight == nil || insight.RecurringCandidate == nil {
			t.Fatalf("insight = %+v, want a recurring candidate", insight)
		}
		if insight.RecurringCandidate.ID != expense.ID {
			t.Errorf("candidate = %+v, want the new expense", insight.RecurringCandidate)
		}
	})
}
