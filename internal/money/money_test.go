package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token   string
		want    string
		wantErr bool
	}{
		{token: "1.234,56", want: "1234.56"},
		{token: "10,50", want: "10.5"},
		{token: "300", want: "300"},
		{token: "2.500", want: "2500"},
		{token: "0,99", want: "0.99"},
		{token: "1,2,3", wantErr: true},
		{token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Parse(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %s, want error", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.token, err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.token, got, want)
			}
		})
	}
}

func TestEqualShareExactDivision(t *testing.T) {
	total := decimal.RequireFromString("300.00")
	share := EqualShare(total, 3)
	if !share.Equal(decimal.RequireFromString("100")) {
		t.Errorf("share = %s, want 100", share)
	}
	if sum := share.Mul(decimal.NewFromInt(3)); !sum.Equal(total) {
		t.Errorf("sum of shares = %s, want %s", sum, total)
	}
}

func TestEqualShareUnevenDivisionDoesNotReconcile(t *testing.T) {
	// 100 into 3 yields 33.33... shares; the documented behavior is that
	// the parts do not sum back to the whole.
	total := decimal.RequireFromString("100.00")
	share := EqualShare(total, 3)

	if !share.GreaterThan(decimal.RequireFromString("33.33")) ||
		!share.LessThan(decimal.RequireFromString("33.34")) {
		t.Errorf("share = %s, want a value in (33.33, 33.34)", share)
	}

	sum := share.Mul(decimal.NewFromInt(3))
	if sum.Equal(total) {
		t.Fatalf("sum of shares = %s, expected it to differ from the total", sum)
	}
	if diff := total.Sub(sum).Abs(); diff.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("sum of shares off by %s, want less than a cent", diff)
	}
}

func TestToleranceBand(t *testing.T) {
	min, max := ToleranceBand(decimal.RequireFromString("100"), decimal.RequireFromString("0.05"))
	if !min.Equal(decimal.RequireFromString("95")) {
		t.Errorf("min = %s, want 95", min)
	}
	if !max.Equal(decimal.RequireFromString("105")) {
		t.Errorf("max = %s, want 105", max)
	}

	min, max = ToleranceBand(decimal.RequireFromString("39.90"), decimal.RequireFromString("0.05"))
	if !min.Equal(decimal.RequireFromString("37.905")) || !max.Equal(decimal.RequireFromString("41.895")) {
		t.Errorf("band = [%s, %s], want [37.905, 41.895]", min, max)
	}
}
