package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/storage"
)

func seedExpense(t *testing.T, store storage.Store, userID int64, description, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Category:    "🎉 Leisure",
		Date:        date,
	}
	if err := store.CreateExpense(context.Background(), expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return expense
}

func TestDetectPattern(t *testing.T) {
	store := newTestStore(t)
	svc := NewRecurringService(store, DefaultConfig())
	ctx := context.Background()
	today := dates.Day(2026, time.July, 10)

	seedExpense(t, store, 1, "Netflix", "39.90", dates.Day(2026, time.June, 10))
	current := seedExpense(t, store, 1, "Netflix", "39.90", today)

	t.Run("two matching months suggest a pattern", func(t *testing.T) {
		got, err := svc.DetectPattern(ctx, current, today)
		if err != nil {
			t.Fatalf("DetectPattern failed: %v", err)
		}
		if !got {
			t.Error("expected a recurring pattern")
		}
	})

	t.Run("amounts outside the tolerance do not match", func(t *testing.T) {
		// 60.00 vs 39.90 is far beyond ±5%.
		odd := seedExpense(t, store, 1, "Cinema", "60.00", today)
		seedExpense(t, store, 1, "Cinema", "39.90", dates.Day(2026, time.June, 12))

		got, err := svc.DetectPattern(ctx, odd, today)
		if err != nil {
			t.Fatalf("DetectPattern failed: %v", err)
		}
		if got {
			t.Error("expected no pattern across mismatched amounts")
		}
	})

	t.Run("a slightly different amount still matches", func(t *testing.T) {
		// 41.00 is within ±5% of 39.90's band center.
		near := seedExpense(t, store, 1, "Spotify", "39.90", today)
		seedExpense(t, store, 1, "Spotify", "41.00", dates.Day(2026, time.June, 15))

		got, err := svc.DetectPattern(ctx, near, today)
		if err != nil {
			t.Fatalf("DetectPattern failed: %v", err)
		}
		if !got {
			t.Error("expected a pattern within the tolerance band")
		}
	})

	t.Run("an existing plan suppresses the suggestion", func(t *testing.T) {
		_, err := svc.AddRecurringPlan(ctx, &models.RecurringPlan{
			UserID: 1, Description: "Netflix",
			Amount: decimal.RequireFromString("39.90"), Category: "🎉 Leisure", DayOfMonth: 10,
		})
		if err != nil {
			t.Fatalf("AddRecurringPlan failed: %v", err)
		}

		got, err := svc.DetectPattern(ctx, current, today)
		if err != nil {
			t.Fatalf("DetectPattern failed: %v", err)
		}
		if got {
			t.Error("expected no suggestion once a plan exists")
		}
	})
}

func TestAddRecurringPlanValidation(t *testing.T) {
	svc := NewRecurringService(newTestStore(t), DefaultConfig())
	ctx := context.Background()

	_, err := svc.AddRecurringPlan(ctx, &models.RecurringPlan{
		UserID: 1, Description: "Rent", Amount: decimal.NewFromInt(1000), DayOfMonth: 0,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("day 0 = %v, want ErrInvalidInput", err)
	}

	_, err = svc.AddRecurringPlan(ctx, &models.RecurringPlan{
		UserID: 1, Description: "Rent", Amount: decimal.Zero, DayOfMonth: 5,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero amount = %v, want ErrInvalidInput", err)
	}

	inserted, err := svc.AddRecurringPlan(ctx, &models.RecurringPlan{
		UserID: 1, Description: "Rent", Amount: decimal.NewFromInt(1000), Category: "🏠 Housing", DayOfMonth: 5,
	})
	if err != nil || !inserted {
		t.Fatalf("AddRecurringPlan = (%v, %v), want (true, nil)", inserted, err)
	}

	inserted, err = svc.AddRecurringPlan(ctx, &models.RecurringPlan{
		UserID: 1, Description: "Rent", Amount: decimal.NewFromInt(1100), Category: "🏠 Housing", DayOfMonth: 6,
	})
	if err != nil {
		t.Fatalf("AddRecurringPlan failed: %v", err)
	}
	if inserted {
		t.Error("expected duplicate confirmation to be a no-op")
	}
}

func TestMaterializeDuePlans(t *testing.T) {
	store := newTestStore(t)
	svc := NewRecurringService(store, DefaultConfig())
	ctx := context.Background()

	mustAddPlan := func(description string, day int) {
		t.Helper()
		_, err := svc.AddRecurringPlan(ctx, &models.RecurringPlan{
			UserID: 1, Description: description,
			Amount: decimal.RequireFromString("39.90"), Category: "🎉 Leisure", DayOfMonth: day,
		})
		if err != nil {
			t.Fatalf("AddRecurringPlan failed: %v", err)
		}
	}
	mustAddPlan("Netflix", 15)
	mustAddPlan("Gym", 31)

	t.Run("inserts once per month", func(t *testing.T) {
		today := dates.Day(2026, time.August, 15)
		inserted, err := svc.MaterializeDuePlans(ctx, today)
		if err != nil {
			t.Fatalf("MaterializeDuePlans failed: %v", err)
		}
		if inserted != 1 {
			t.Fatalf("inserted = %d, want 1", inserted)
		}

		// Running the sweep again on the same day inserts nothing.
		inserted, err = svc.MaterializeDuePlans(ctx, today)
		if err != nil {
			t.Fatalf("MaterializeDuePlans failed: %v", err)
		}
		if inserted != 0 {
			t.Errorf("second run inserted = %d, want 0", inserted)
		}

		last, err := store.LastExpense(ctx, 1)
		if err != nil {
			t.Fatalf("LastExpense failed: %v", err)
		}
		if last.Description != "Netflix" || !last.Date.Equal(today) {
			t.Errorf("materialized expense = %+v, want Netflix on %s", last, today)
		}
	})

	t.Run("day 31 fires on the last day of shorter months", func(t *testing.T) {
		inserted, err := svc.MaterializeDuePlans(ctx, dates.Day(2026, time.September, 30))
		if err != nil {
			t.Fatalf("MaterializeDuePlans failed: %v", err)
		}
		if inserted != 1 {
			t.Fatalf("inserted = %d, want 1 (the day-31 plan clamps)", inserted)
		}

		last, err := store.LastExpense(ctx, 1)
		if err != nil {
			t.Fatalf("LastExpense failed: %v", err)
		}
		if last.Description != "Gym" {
			t.Errorf("materialized %q, want the Gym plan", last.Description)
		}
	})

	t.Run("mid-month days trigger nothing extra", func(t *testing.T) {
		inserted, err := svc.MaterializeDuePlans(ctx, dates.Day(2026, time.October, 10))
		if err != nil {
			t.Fatalf("MaterializeDuePlans failed: %v", err)
		}
		if inserted != 0 {
			t.Errorf("inserted = %d, want 0", inserted)
		}
	})
}
