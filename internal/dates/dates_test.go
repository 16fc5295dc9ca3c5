package dates

import (
	"testing"
	"time"
)

func TestAddMonthsClampsDay(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain shift", Day(2024, time.January, 15), 1, Day(2024, time.February, 15)},
		{"jan 31 into leap february", Day(2024, time.January, 31), 1, Day(2024, time.February, 29)},
		{"jan 31 into plain february", Day(2023, time.January, 31), 1, Day(2023, time.February, 28)},
		{"jan 31 two months out", Day(2024, time.January, 31), 2, Day(2024, time.March, 31)},
		{"year rollover", Day(2024, time.November, 30), 3, Day(2025, time.February, 28)},
		{"zero months", Day(2024, time.May, 10), 0, Day(2024, time.May, 10)},
		{"backwards", Day(2024, time.March, 31), -1, Day(2024, time.February, 29)},
		{"backwards across year", Day(2024, time.January, 31), -1, Day(2023, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.start, tt.months); !got.Equal(tt.want) {
				t.Errorf("AddMonths(%s, %d) = %s, want %s",
					tt.start.Format(Format), tt.months, got.Format(Format), tt.want.Format(Format))
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.January, 31},
		{2024, time.April, 30},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthHelpers(t *testing.T) {
	d := Day(2024, time.July, 19)

	if got := StartOfMonth(d); !got.Equal(Day(2024, time.July, 1)) {
		t.Errorf("StartOfMonth = %s, want 2024-07-01", got.Format(Format))
	}
	if got := MonthKey(d); got != "2024-07" {
		t.Errorf("MonthKey = %q, want 2024-07", got)
	}
	if !SameMonth(d, Day(2024, time.July, 1)) {
		t.Error("SameMonth should match dates within one calendar month")
	}
	if SameMonth(d, Day(2023, time.July, 19)) {
		t.Error("SameMonth should not match the same month of a different year")
	}
}
