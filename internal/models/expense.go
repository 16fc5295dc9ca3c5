package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single dated spend. Immutable once created except for deletion.
type Expense struct {
	// ID is the unique identifier (UUID format).
	ID string

	// UserID is the owning user.
	UserID int64

	// Amount is the exact decimal value, always positive.
	Amount decimal.Decimal

	// Description is the normalized free-text description.
	Description string

	// Category is the label the expense was classified into, in its
	// "glyph name" display form.
	Category string

	// Date is the day the expense applies to.
	Date time.Time

	// CreatedAt is the Unix timestamp when the record was written.
	CreatedAt int64

	// InstallmentID links the expense back to the installment plan that
	// generated it, nil for standalone expenses.
	InstallmentID *string
}
