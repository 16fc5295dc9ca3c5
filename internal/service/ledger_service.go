package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/classifier"
	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/metrics"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/parser"
	"github.com/savieapp/savie/internal/storage"
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LedgerService covers registration and the expense lifecycle: recording,
// installment amortization, lookup and deletion.
type LedgerService struct {
	store      storage.Store
	classifier *classifier.Classifier
}

// NewLedgerService creates a LedgerService with the given storage backend and
// classifier.
func NewLedgerService(store storage.Store, c *classifier.Classifier) *LedgerService {
	return &LedgerService{store: store, classifier: c}
}

// RegisterUser records first contact, or refreshes the handle and display
// name on repeat contact.
func (s *LedgerService) RegisterUser(ctx context.Context, user *models.User) error {
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// CompleteProfile finishes registration. The full name must have at least two
// parts and the email must look like an address.
func (s *LedgerService) CompleteProfile(ctx context.Context, userID int64, fullName, email string) error {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if len(strings.Fields(fullName)) < 2 {
		return fmt.Errorf("full name must include first and last name: %w", ErrInvalidInput)
	}
	if !emailRE.MatchString(email) {
		return fmt.Errorf("malformed email %q: %w", email, ErrInvalidInput)
	}

	if err := s.store.UpdateProfile(ctx, userID, fullName, email); err != nil {
		return fmt.Errorf("failed to complete profile: %w", err)
	}
	slog.Info("profile completed", "user_id", userID)
	return nil
}

// GetProfile returns the user's record, or ErrNotFound.
func (s *LedgerService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

// requireRegistered gates ledger operations on a completed profile.
func (s *LedgerService) requireRegistered(ctx context.Context, userID int64) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !user.Registered() {
		return fmt.Errorf("user %d: %w", userID, ErrNotRegistered)
	}
	return nil
}

// classify resolves the category label for a description against the current
// category list.
func (s *LedgerService) classify(ctx context.Context, description string) (string, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load categories: %w", err)
	}
	return s.classifier.Classify(ctx, description, categories), nil
}

// RecordExpense parses free text into an expense dated on the given day,
// classifies it and persists it.
func (s *LedgerService) RecordExpense(ctx context.Context, userID int64, text string, date time.Time) (*models.Expense, error) {
	if err := s.requireRegistered(ctx, userID); err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(text)
	if errors.Is(err, parser.ErrNoAmount) {
		return nil, fmt.Errorf("no amount in %q: %w", text, ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense: %w", err)
	}

	category, err := s.classify(ctx, parsed.Description)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      parsed.Amount,
		Description: parsed.Description,
		Category:    category,
		Date:        dates.Midnight(date),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	metrics.ExpensesRecorded.Inc()
	slog.Info("expense recorded",
		"user_id", userID,
		"amount", expense.Amount.String(),
		"category", expense.Category,
	)
	return expense, nil
}

// AddInstallmentPurchase amortizes a purchase into count equal monthly
// expenses starting at start, committed together with the plan. The
// per-installment value is the exact decimal division of the total; the
// shares are not corrected to re-sum to the total.
func (s *LedgerService) AddInstallmentPurchase(ctx context.Context, userID int64, description string, total decimal.Decimal, count int, start time.Time) (*models.InstallmentPlan, error) {
	if err := s.requireRegistered(ctx, userID); err != nil {
		return nil, err
	}
	if count < 2 {
		return nil, fmt.Errorf("installment count %d must be at least 2: %w", count, ErrInvalidInput)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("installment total %s must be positive: %w", total, ErrInvalidInput)
	}

	category, err := s.classify(ctx, description)
	if err != nil {
		return nil, err
	}

	plan := &models.InstallmentPlan{
		UserID:           userID,
		TotalAmount:      total,
		Description:      description,
		Category:         category,
		InstallmentCount: count,
		StartDate:        dates.Midnight(start),
	}
	amount := plan.InstallmentAmount()
	expenses := make([]*models.Expense, count)
	for k := 0; k < count; k++ {
		expenses[k] = &models.Expense{
			UserID:      userID,
			Amount:      amount,
			Description: fmt.Sprintf("%s (%d/%d)", description, k+1, count),
			Category:    category,
			Date:        dates.AddMonths(plan.StartDate, k),
		}
	}

	if err := s.store.CreateInstallmentPlan(ctx, plan, expenses); err != nil {
		return nil, fmt.Errorf("failed to create installment plan: %w", err)
	}

	slog.Info("installment plan created",
		"user_id", userID,
		"total", total.String(),
		"count", count,
	)
	return plan, nil
}

// LastExpense returns the user's most recent expense, or nil when there is
// none.
func (s *LedgerService) LastExpense(ctx context.Context, userID int64) (*models.Expense, error) {
	expense, err := s.store.LastExpense(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes one of the user's expenses.
func (s *LedgerService) DeleteExpense(ctx context.Context, userID int64, expenseID string) error {
	err := s.store.DeleteExpense(ctx, userID, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// DeleteAllUserData wipes the user's ledger. Shared bills survive; they
// belong to the group.
func (s *LedgerService) DeleteAllUserData(ctx context.Context, userID int64) error {
	if err := s.store.DeleteAllUserData(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	slog.Info("user data deleted", "user_id", userID)
	return nil
}

// ActiveInstallments lists the user's plans that still have installments
// after today.
func (s *LedgerService) ActiveInstallments(ctx context.Context, userID int64, today time.Time) ([]models.InstallmentProgress, error) {
	progress, err := s.store.ActiveInstallments(ctx, userID, dates.Midnight(today))
	if err != nil {
		return nil, fmt.Errorf("failed to list active installments: %w", err)
	}
	return progress, nil
}
