package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentPlan amortizes a single purchase into dated, equal sub-expenses.
// The plan owns one generated Expense per period, linked by InstallmentID.
type InstallmentPlan struct {
	// ID is the unique identifier (UUID format).
	ID string

	// UserID is the owning user.
	UserID int64

	// TotalAmount is the full purchase price.
	TotalAmount decimal.Decimal

	// Description is the purchase description without the sequence suffix.
	Description string

	// Category is the classified category label.
	Category string

	// InstallmentCount is the number of periods, always >= 2.
	InstallmentCount int

	// StartDate is the date of the first installment.
	StartDate time.Time
}

// InstallmentAmount is the per-period charge: exact decimal division of the
// total, with no remainder correction on the final installment.
func (p *InstallmentPlan) InstallmentAmount() decimal.Decimal {
	return p.TotalAmount.Div(decimal.NewFromInt(int64(p.InstallmentCount)))
}

// InstallmentProgress pairs a plan with its derived paid count. The count is
// recomputed from the linked expenses (date <= today) on every read; it is
// never stored, so it cannot drift from the actual rows.
type InstallmentProgress struct {
	Plan      InstallmentPlan
	PaidCount int
}

// RemainingAmount is the value of the installments still to come.
func (p *InstallmentProgress) RemainingAmount() decimal.Decimal {
	remaining := p.Plan.InstallmentCount - p.PaidCount
	if remaining <= 0 {
		return decimal.Zero
	}
	return p.Plan.InstallmentAmount().Mul(decimal.NewFromInt(int64(remaining)))
}
