package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   string
		desc     string
		noAmount bool
	}{
		{
			name:   "amount after description",
			text:   "Lunch 25,50",
			amount: "25.50",
			desc:   "Lunch",
		},
		{
			name:   "thousands and decimal separators",
			text:   "spent 1.234,56 on rent",
			amount: "1234.56",
			desc:   "On rent",
		},
		{
			name:   "filler words stripped",
			text:   "paid 50 reais for cinema",
			amount: "50",
			desc:   "For cinema",
		},
		{
			name:   "currency sign stripped",
			text:   "Coffee R$ 10,50",
			amount: "10.50",
			desc:   "Coffee",
		},
		{
			name:   "only amount falls back to placeholder",
			text:   "R$ 99,90",
			amount: "99.90",
			desc:   DefaultDescription,
		},
		{
			name:   "whitespace collapsed and capitalized",
			text:   "  new   running shoes   300  ",
			amount: "300",
			desc:   "New running shoes",
		},
		{
			name:     "no numeric token",
			text:     "thanks a lot!",
			noAmount: true,
		},
		{
			name:     "malformed numeric token",
			text:     "weird 1,2,3 thing",
			noAmount: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if tt.noAmount {
				if !errors.Is(err, ErrNoAmount) {
					t.Fatalf("Parse(%q) err = %v, want ErrNoAmount", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.text, err)
			}
			if want := decimal.RequireFromString(tt.amount); !got.Amount.Equal(want) {
				t.Errorf("amount = %s, want %s", got.Amount, want)
			}
			if got.Description != tt.desc {
				t.Errorf("description = %q, want %q", got.Description, tt.desc)
			}
		})
	}
}

func TestDetectInstallment(t *testing.T) {
	tests := []struct {
		text  string
		count int
		found bool
	}{
		{"TV 2500 in 10x", 10, true},
		{"laptop 3000 12 x", 12, true},
		{"fridge in installments of 5", 5, true},
		{"installment of 3", 3, true},
		{"Lunch 25,50", 0, false},
		{"x marks the spot", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			count, found := DetectInstallment(tt.text)
			if found != tt.found || count != tt.count {
				t.Errorf("DetectInstallment(%q) = (%d, %v), want (%d, %v)",
					tt.text, count, found, tt.count, tt.found)
			}
		})
	}
}
