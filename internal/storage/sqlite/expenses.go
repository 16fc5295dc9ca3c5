package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/storage"
)

const expenseColumns = "id, user_id, amount, description, category, date, created_at, installment_id"

// CreateExpense persists a single expense, assigning ID and CreatedAt.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := execCreateExpense(ctx, s.db, expense); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execCreateExpense(ctx context.Context, db execer, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	var installmentID any
	if expense.InstallmentID != nil {
		installmentID = *expense.InstallmentID
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, amount, description, category, date, created_at, installment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		expense.ID,
		expense.UserID,
		expense.Amount.String(),
		expense.Description,
		expense.Category,
		formatDate(expense.Date),
		expense.CreatedAt,
		installmentID,
	)
	return err
}

// CreateInstallmentPlan persists the plan and its generated expenses in one
// transaction; partial creation is never observable.
func (s *SQLiteStore) CreateInstallmentPlan(ctx context.Context, plan *models.InstallmentPlan, expenses []*models.Expense) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO installment_plans (id, user_id, total_amount, description, category, installment_count, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		plan.ID,
		plan.UserID,
		plan.TotalAmount.String(),
		plan.Description,
		plan.Category,
		plan.InstallmentCount,
		formatDate(plan.StartDate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert installment plan: %w", err)
	}

	for _, expense := range expenses {
		expense.InstallmentID = &plan.ID
		if err := execCreateExpense(ctx, tx, expense); err != nil {
			return fmt.Errorf("failed to insert installment expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LastExpense returns the most recently recorded expense for the user.
// Returns nil, nil when the user has none.
func (s *SQLiteStore) LastExpense(ctx context.Context, userID int64) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE user_id = ?
		ORDER BY rowid DESC
		LIMIT 1
	`, userID)

	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last expense: %w", err)
	}
	return expense, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount, date string
	var installmentID sql.NullString

	if err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&amount,
		&expense.Description,
		&expense.Category,
		&date,
		&expense.CreatedAt,
		&installmentID,
	); err != nil {
		return nil, err
	}

	var err error
	if expense.Amount, err = parseStoredAmount(amount); err != nil {
		return nil, err
	}
	if expense.Date, err = parseStoredDate(date); err != nil {
		return nil, err
	}
	expense.InstallmentID = nullableString(installmentID)
	return expense, nil
}

// DeleteExpense removes one expense owned by the user.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, userID int64, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?",
		expenseID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// DeleteAllUserData wipes the user's expenses, installment plans, recurring
// plans and challenges in one transaction. Shared bills survive: they belong
// to the group, not to the individual ledger.
func (s *SQLiteStore) DeleteAllUserData(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Expenses reference installment plans, so they go first.
	statements := []string{
		"DELETE FROM expenses WHERE user_id = ?",
		"DELETE FROM installment_plans WHERE user_id = ?",
		"DELETE FROM recurring_plans WHERE user_id = ?",
		"DELETE FROM challenges WHERE user_id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ActiveInstallments lists plans that still have installments dated after
// today. The paid count is derived from the expense rows on every read.
func (s *SQLiteStore) ActiveInstallments(ctx context.Context, userID int64, today time.Time) ([]models.InstallmentProgress, error) {
	day := formatDate(today)
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.total_amount, p.description, p.category, p.installment_count, p.start_date,
		       (SELECT COUNT(*) FROM expenses e WHERE e.installment_id = p.id AND e.date <= ?) AS paid_count
		FROM installment_plans p
		WHERE p.user_id = ?
		  AND (SELECT COUNT(*) FROM expenses e WHERE e.installment_id = p.id AND e.date <= ?) < p.installment_count
		ORDER BY p.start_date DESC
	`, day, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list active installments: %w", err)
	}
	defer rows.Close()

	var progress []models.InstallmentProgress
	for rows.Next() {
		var p models.InstallmentProgress
		var total, start string
		if err := rows.Scan(
			&p.Plan.ID,
			&p.Plan.UserID,
			&total,
			&p.Plan.Description,
			&p.Plan.Category,
			&p.Plan.InstallmentCount,
			&start,
			&p.PaidCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan installment plan: %w", err)
		}
		if p.Plan.TotalAmount, err = parseStoredAmount(total); err != nil {
			return nil, err
		}
		if p.Plan.StartDate, err = parseStoredDate(start); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installment plans: %w", err)
	}
	return progress, nil
}

// SumExpensesSince totals expenses dated on or after since. The sum runs in
// Go over exact decimals.
func (s *SQLiteStore) SumExpensesSince(ctx context.Context, userID int64, since time.Time) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT amount FROM expenses WHERE user_id = ? AND date >= ?",
		userID, formatDate(since),
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		amount, err := parseStoredAmount(raw)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate amounts: %w", err)
	}
	return total, nil
}

// CategoryTotalsSince sums per category for expenses dated on or after since,
// ordered by descending total.
func (s *SQLiteStore) CategoryTotalsSince(ctx context.Context, userID int64, since time.Time) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount FROM expenses WHERE user_id = ? AND date >= ?",
		userID, formatDate(since),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category, raw string
		if err := rows.Scan(&category, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		amount, err := parseStoredAmount(raw)
		if err != nil {
			return nil, err
		}
		totals[category] = totals[category].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	result := make([]models.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		result = append(result, models.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// CategoryMonthlyTotals groups one category's spend by calendar month.
func (s *SQLiteStore) CategoryMonthlyTotals(ctx context.Context, userID int64, category string) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT substr(date, 1, 7), amount FROM expenses WHERE user_id = ? AND category = ?",
		userID, category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var month, raw string
		if err := rows.Scan(&month, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		amount, err := parseStoredAmount(raw)
		if err != nil {
			return nil, err
		}
		totals[month] = totals[month].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return totals, nil
}

// MonthsWithExpense counts distinct calendar months since the given date that
// contain an expense with this description and an amount within [min, max].
// The amount comparison runs in Go to keep it exact.
func (s *SQLiteStore) MonthsWithExpense(ctx context.Context, userID int64, description string, min, max decimal.Decimal, since time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT substr(date, 1, 7), amount FROM expenses WHERE user_id = ? AND description = ? AND date >= ?",
		userID, description, formatDate(since),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	months := make(map[string]struct{})
	for rows.Next() {
		var month, raw string
		if err := rows.Scan(&month, &raw); err != nil {
			return 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		amount, err := parseStoredAmount(raw)
		if err != nil {
			return 0, err
		}
		if amount.GreaterThanOrEqual(min) && amount.LessThanOrEqual(max) {
			months[month] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return len(months), nil
}

// HasExpenseInMonth reports whether an expense with this description exists
// in the given calendar month. This is the idempotency check for recurring
// materialization.
func (s *SQLiteStore) HasExpenseInMonth(ctx context.Context, userID int64, description, monthKey string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM expenses WHERE user_id = ? AND description = ? AND substr(date, 1, 7) = ? LIMIT 1",
		userID, description, monthKey,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check month expense: %w", err)
	}
	return true, nil
}
