package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/service"
	"github.com/savieapp/savie/internal/storage/sqlite"
)

type recordingNotifier struct {
	completed []models.Challenge
}

func (n *recordingNotifier) ChallengeCompleted(_ context.Context, challenge models.Challenge) {
	n.completed = append(n.completed, challenge)
}

func TestRunOnce(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := service.DefaultConfig()
	recurring := service.NewRecurringService(store, cfg)
	challenges := service.NewChallengeService(store)
	ctx := context.Background()

	if _, err := recurring.AddRecurringPlan(ctx, &models.RecurringPlan{
		UserID: 1, Description: "Netflix",
		Amount: decimal.RequireFromString("39.90"), Category: "🎉 Leisure", DayOfMonth: 15,
	}); err != nil {
		t.Fatalf("AddRecurringPlan failed: %v", err)
	}
	if _, err := challenges.Start(ctx, 1, "🎉 Leisure", 7, dates.Day(2026, time.August, 1)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	notifier := &recordingNotifier{}
	sched := New(recurring, challenges, notifier, 0)
	if sched.interval != DefaultInterval {
		t.Errorf("interval = %v, want the default", sched.interval)
	}

	now := dates.Day(2026, time.August, 15)
	sched.runOnce(ctx, now)

	expense, err := store.LastExpense(ctx, 1)
	if err != nil {
		t.Fatalf("LastExpense failed: %v", err)
	}
	if expense == nil || expense.Description != "Netflix" {
		t.Errorf("materialized expense = %+v, want Netflix", expense)
	}
	if len(notifier.completed) != 1 {
		t.Fatalf("notified completions = %d, want 1", len(notifier.completed))
	}
	if notifier.completed[0].Status != models.ChallengeCompleted {
		t.Errorf("Status = %s, want completed", notifier.completed[0].Status)
	}

	// The pass is idempotent within the day.
	sched.runOnce(ctx, now)
	if len(notifier.completed) != 1 {
		t.Errorf("second pass notified again: %d", len(notifier.completed))
	}
	total, err := store.SumExpensesSince(ctx, 1, dates.Day(2026, time.August, 1))
	if err != nil {
		t.Fatalf("SumExpensesSince failed: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("39.90")) {
		t.Errorf("total = %s, want a single 39.90 expense", total)
	}
}
