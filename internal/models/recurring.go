package models

import "github.com/shopspring/decimal"

// RecurringPlan is a user-confirmed subscription that generates one expense
// per calendar month. Unique per (user, description): a second confirmation
// for the same description is a no-op.
type RecurringPlan struct {
	// ID is the unique identifier (UUID format).
	ID string

	// UserID is the owning user.
	UserID int64

	// Description identifies the subscription and is the idempotency key
	// together with the user and calendar month.
	Description string

	// Amount is the expense value generated each period.
	Amount decimal.Decimal

	// Category is the classified category label.
	Category string

	// DayOfMonth is the trigger day (1-31), clamped to the month length at
	// materialization time.
	DayOfMonth int

	// CreatedAt is the Unix timestamp when the plan was confirmed.
	CreatedAt int64
}
