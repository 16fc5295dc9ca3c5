package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savieapp/savie/internal/models"
)

const recurringColumns = "id, user_id, description, amount, category, day_of_month, created_at"

// CreateRecurringPlan inserts the plan unless one already exists for
// (user, description). The duplicate case is a no-op reported as false.
func (s *SQLiteStore) CreateRecurringPlan(ctx context.Context, plan *models.RecurringPlan) (bool, error) {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.CreatedAt == 0 {
		plan.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO recurring_plans (id, user_id, description, amount, category, day_of_month, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		plan.ID,
		plan.UserID,
		plan.Description,
		plan.Amount.String(),
		plan.Category,
		plan.DayOfMonth,
		plan.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert recurring plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// GetRecurringPlan fetches a plan by its (user, description) key.
// Returns nil, nil when absent.
func (s *SQLiteStore) GetRecurringPlan(ctx context.Context, userID int64, description string) (*models.RecurringPlan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_plans
		WHERE user_id = ? AND description = ?
	`, userID, description)

	plan, err := scanRecurringPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring plan: %w", err)
	}
	return plan, nil
}

// DuePlans lists plans triggering on the given day. On the last day of the
// month it also includes plans whose trigger day exceeds the month length,
// clamping them to the day that actually exists.
func (s *SQLiteStore) DuePlans(ctx context.Context, day, daysInMonth int) ([]models.RecurringPlan, error) {
	where := "day_of_month = ?"
	if day >= daysInMonth {
		where = "day_of_month >= ?"
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recurringColumns+" FROM recurring_plans WHERE "+where+" ORDER BY rowid",
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due plans: %w", err)
	}
	defer rows.Close()

	var plans []models.RecurringPlan
	for rows.Next() {
		plan, err := scanRecurringPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due plans: %w", err)
	}
	return plans, nil
}

func scanRecurringPlan(row rowScanner) (*models.RecurringPlan, error) {
	plan := &models.RecurringPlan{}
	var amount string
	if err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Description,
		&amount,
		&plan.Category,
		&plan.DayOfMonth,
		&plan.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if plan.Amount, err = parseStoredAmount(amount); err != nil {
		return nil, err
	}
	return plan, nil
}
