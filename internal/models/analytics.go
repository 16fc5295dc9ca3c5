package models

import "github.com/shopspring/decimal"

// CategoryTotal is one category's summed spend within a period.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthlySummary is the month-to-date picture of a user's spending.
type MonthlySummary struct {
	Total      decimal.Decimal
	ByCategory []CategoryTotal
}

// SpendingPace compares the current month's category spend against the
// average of prior months that had any spend in that category.
type SpendingPace struct {
	Category          string
	CurrentTotal      decimal.Decimal
	HistoricalAverage decimal.Decimal
}

// PaceAlert is raised when spending in a category outruns the month.
// SpendProgress is current total over historical average; MonthProgress is
// elapsed days over days in the month.
type PaceAlert struct {
	Category          string
	CurrentTotal      decimal.Decimal
	HistoricalAverage decimal.Decimal
	SpendProgress     decimal.Decimal
	MonthProgress     decimal.Decimal
}
