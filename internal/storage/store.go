// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/models"
)

// ErrNotFound is returned when an operation targets a row that does not
// exist.
var ErrNotFound = errors.New("not found")

// ErrPayerMismatch is returned when a payment confirmation arrives from a
// user other than the participant's resolved identity.
var ErrPayerMismatch = errors.New("participant belongs to a different user")

// Store defines the interface for ledger storage. The abstraction allows
// swapping storage backends without changing the service layer. All writes
// that span multiple rows (an installment plan with its expenses, a bill with
// its participants) are committed as a single unit.
type Store interface {
	// UpsertUser creates the user on first contact and refreshes the
	// platform handle and display name on subsequent contacts.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by id. Returns nil, nil when absent.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserByUsername retrieves a user by platform handle.
	// Returns nil, nil when absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateProfile completes a user's registration.
	UpdateProfile(ctx context.Context, id int64, fullName, email string) error

	// RegisteredUsers lists users with a completed profile.
	RegisteredUsers(ctx context.Context) ([]models.User, error)

	// Categories returns all categories in creation order.
	Categories(ctx context.Context) ([]models.Category, error)

	// CreateExpense persists a single expense, assigning ID and CreatedAt.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// CreateInstallmentPlan persists a plan and its generated expenses
	// atomically; partial creation is never observable.
	CreateInstallmentPlan(ctx context.Context, plan *models.InstallmentPlan, expenses []*models.Expense) error

	// LastExpense returns the most recently recorded expense for the user.
	// Returns nil, nil when the user has none.
	LastExpense(ctx context.Context, userID int64) (*models.Expense, error)

	// DeleteExpense removes one expense owned by the user.
	// Returns ErrNotFound when no such row exists.
	DeleteExpense(ctx context.Context, userID int64, expenseID string) error

	// DeleteAllUserData removes the user's expenses, installment plans,
	// recurring plans and challenges. Other users' data is untouched.
	DeleteAllUserData(ctx context.Context, userID int64) error

	// ActiveInstallments lists the user's plans that still have future
	// installments, with paid counts derived from the expense rows.
	ActiveInstallments(ctx context.Context, userID int64, today time.Time) ([]models.InstallmentProgress, error)

	// SumExpensesSince totals the user's expenses dated on or after since.
	SumExpensesSince(ctx context.Context, userID int64, since time.Time) (decimal.Decimal, error)

	// CategoryTotalsSince sums per category for expenses dated on or after
	// since, ordered by descending total.
	CategoryTotalsSince(ctx context.Context, userID int64, since time.Time) ([]models.CategoryTotal, error)

	// CategoryMonthlyTotals returns the user's spend in one category
	// grouped by calendar month ("YYYY-MM" keys).
	CategoryMonthlyTotals(ctx context.Context, userID int64, category string) (map[string]decimal.Decimal, error)

	// MonthsWithExpense counts the distinct calendar months since the
	// given date holding an expense with this description and an amount
	// within [min, max].
	MonthsWithExpense(ctx context.Context, userID int64, description string, min, max decimal.Decimal, since time.Time) (int, error)

	// HasExpenseInMonth reports whether an expense with this description
	// exists in the given calendar month ("YYYY-MM").
	HasExpenseInMonth(ctx context.Context, userID int64, description, monthKey string) (bool, error)

	// CreateRecurringPlan persists a plan unless one already exists for
	// (user, description); the duplicate case reports false with no error.
	CreateRecurringPlan(ctx context.Context, plan *models.RecurringPlan) (bool, error)

	// GetRecurringPlan fetches a plan by its (user, description) key.
	// Returns nil, nil when absent.
	GetRecurringPlan(ctx context.Context, userID int64, description string) (*models.RecurringPlan, error)

	// DuePlans lists plans triggering on the given day of month. When the
	// day is the last of the month, plans with later trigger days are
	// included (the trigger clamps to month length).
	DuePlans(ctx context.Context, day, daysInMonth int) ([]models.RecurringPlan, error)

	// CreateChallenge cancels any active challenge for the user and
	// inserts the new one in the same transaction.
	CreateChallenge(ctx context.Context, challenge *models.Challenge) error

	// ActiveChallenge fetches the user's active challenge for a category
	// whose end date is on or after today. Returns nil, nil when absent.
	ActiveChallenge(ctx context.Context, userID int64, category string, today time.Time) (*models.Challenge, error)

	// ActiveChallenges lists the user's active challenges.
	ActiveChallenges(ctx context.Context, userID int64) ([]models.Challenge, error)

	// UpdateChallengeStatus transitions one challenge.
	// Returns ErrNotFound when the challenge does not exist.
	UpdateChallengeStatus(ctx context.Context, id string, status models.ChallengeStatus) error

	// CompleteExpiredChallenges transitions every active challenge ending
	// before the given day to completed, in one batch, and returns the
	// newly-completed challenges.
	CompleteExpiredChallenges(ctx context.Context, before time.Time) ([]models.Challenge, error)

	// CreateSharedBill persists a bill and its participants atomically.
	CreateSharedBill(ctx context.Context, bill *models.SharedBill, participants []*models.BillParticipant) error

	// AddBillParticipant appends one participant to an existing bill.
	AddBillParticipant(ctx context.Context, participant *models.BillParticipant) error

	// SetBillSummaryRef records the rendered summary message reference.
	SetBillSummaryRef(ctx context.Context, billID string, ref int64) error

	// MarkParticipantPaid marks the participant paid when the row is
	// unresolved or already belongs to the payer, backfilling the identity
	// in the former case. Returns the owning bill id, ErrNotFound for a
	// missing participant, or ErrPayerMismatch.
	MarkParticipantPaid(ctx context.Context, participantID string, payerID int64) (string, error)

	// GetBillStatus fetches a bill with its participants.
	GetBillStatus(ctx context.Context, billID string) (*models.BillStatus, error)

	// DeleteBill removes a bill; participants are removed by cascade.
	DeleteBill(ctx context.Context, billID string) error

	// Close releases any resources held by the store.
	Close() error
}
