package service

import "github.com/shopspring/decimal"

// Config carries the heuristic constants used by the recurring and analytics
// engines. Zero values are never meaningful; construct via DefaultConfig and
// override fields as needed.
type Config struct {
	// RecurringLookbackMonths is how many past calendar months the
	// recurring detector inspects.
	RecurringLookbackMonths int

	// MinRecurringMonths is how many of those months must contain a
	// matching expense before a pattern is suggested.
	MinRecurringMonths int

	// AmountTolerance is the relative band around the candidate amount
	// that still counts as "the same" expense (0.05 means ±5%).
	AmountTolerance decimal.Decimal

	// PaceAlertMargin is how far spend progress must outrun month progress
	// before a pace alert fires (0.30 means 30 percentage points).
	PaceAlertMargin decimal.Decimal
}

// DefaultConfig returns the standard heuristics.
func DefaultConfig() Config {
	return Config{
		RecurringLookbackMonths: 3,
		MinRecurringMonths:      2,
		AmountTolerance:         decimal.RequireFromString("0.05"),
		PaceAlertMargin:         decimal.RequireFromString("0.30"),
	}
}
