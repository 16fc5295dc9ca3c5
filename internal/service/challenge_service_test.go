package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/models"
)

func TestChallengeLifecycle(t *testing.T) {
	store := newTestStore(t)
	svc := NewChallengeService(store)
	ctx := context.Background()
	today := dates.Day(2026, time.March, 1)

	t.Run("duration must be at least one day", func(t *testing.T) {
		_, err := svc.Start(ctx, 1, "🎉 Leisure", 0, today)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Start = %v, want ErrInvalidInput", err)
		}
	})

	first, err := svc.Start(ctx, 1, "🎉 Leisure", 7, today)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !first.EndDate.Equal(dates.Day(2026, time.March, 8)) {
		t.Errorf("EndDate = %s, want 2026-03-08", first.EndDate)
	}

	t.Run("starting again cancels the first", func(t *testing.T) {
		second, err := svc.Start(ctx, 1, "🍽️ Food", 7, today)
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		active, err := svc.ActiveChallenges(ctx, 1)
		if err != nil {
			t.Fatalf("ActiveChallenges failed: %v", err)
		}
		if len(active) != 1 || active[0].ID != second.ID {
			t.Errorf("active = %+v, want only the second challenge", active)
		}
	})

	t.Run("violation fails the matching challenge", func(t *testing.T) {
		// Spending in an unrelated category is fine.
		violated, err := svc.CheckViolation(ctx, 1, "🚗 Transport", today)
		if err != nil {
			t.Fatalf("CheckViolation failed: %v", err)
		}
		if violated != nil {
			t.Errorf("expected no violation for another category, got %+v", violated)
		}

		violated, err = svc.CheckViolation(ctx, 1, "🍽️ Food", dates.Day(2026, time.March, 4))
		if err != nil {
			t.Fatalf("CheckViolation failed: %v", err)
		}
		if violated == nil {
			t.Fatal("expected a violation")
		}
		if violated.Status != models.ChallengeFailed {
			t.Errorf("Status = %s, want failed", violated.Status)
		}

		// Failed is terminal; a later expense changes nothing.
		violated, err = svc.CheckViolation(ctx, 1, "🍽️ Food", dates.Day(2026, time.March, 5))
		if err != nil {
			t.Fatalf("CheckViolation failed: %v", err)
		}
		if violated != nil {
			t.Errorf("expected no second violation, got %+v", violated)
		}
	})
}

func TestSweepCompleted(t *testing.T) {
	store := newTestStore(t)
	svc := NewChallengeService(store)
	ctx := context.Background()

	challenge, err := svc.Start(ctx, 1, "🎉 Leisure", 7, dates.Day(2026, time.March, 1))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	t.Run("nothing before the end date", func(t *testing.T) {
		completed, err := svc.SweepCompleted(ctx, dates.Day(2026, time.March, 8))
		if err != nil {
			t.Fatalf("SweepCompleted failed: %v", err)
		}
		if len(completed) != 0 {
			t.Errorf("completed = %+v, want none on the end date", completed)
		}
	})

	t.Run("completes once after the end date", func(t *testing.T) {
		completed, err := svc.SweepCompleted(ctx, dates.Day(2026, time.March, 9))
		if err != nil {
			t.Fatalf("SweepCompleted failed: %v", err)
		}
		if len(completed) != 1 || completed[0].ID != challenge.ID {
			t.Fatalf("completed = %+v, want the started challenge", completed)
		}
		if completed[0].Status != models.ChallengeCompleted {
			t.Errorf("Status = %s, want completed", completed[0].Status)
		}

		completed, err = svc.SweepCompleted(ctx, dates.Day(2026, time.March, 9))
		if err != nil {
			t.Fatalf("SweepCompleted failed: %v", err)
		}
		if len(completed) != 0 {
			t.Errorf("second sweep = %+v, want none", completed)
		}
	})
}
