// Package dates provides day-granular calendar arithmetic for the ledger.
// Dates are represented as time.Time values at midnight UTC.
package dates

import "time"

// Format is the canonical string form for ledger dates.
const Format = "2006-01-02"

// Day returns y/m/d as a time.Time at midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates t to midnight UTC.
func Midnight(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// AddMonths shifts d by the given number of months, clamping the day of month
// to the length of the target month: Jan 31 + 1 month is Feb 28 (or Feb 29 in
// a leap year), not Mar 2.
func AddMonths(d time.Time, months int) time.Time {
	m := int(d.Month()) - 1 + months
	y := d.Year() + m/12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)
	day := d.Day()
	if last := DaysInMonth(y, month); day > last {
		day = last
	}
	return Day(y, month, day)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return Day(year, month+1, 0).Day()
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d time.Time) time.Time {
	return Day(d.Year(), d.Month(), 1)
}

// MonthKey returns d's calendar month as "YYYY-MM".
func MonthKey(d time.Time) string {
	return d.Format("2006-01")
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
