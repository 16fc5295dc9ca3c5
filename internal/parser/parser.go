// Package parser extracts structured expense data from free user text.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/money"
)

// DefaultDescription is used when nothing remains after stripping the amount
// and filler words.
const DefaultDescription = "Unspecified expense"

// ErrNoAmount is the "no match" sentinel: the text carried no usable
// monetary token.
var ErrNoAmount = errors.New("no amount found in text")

var (
	amountRE      = regexp.MustCompile(`\d[\d.,]*`)
	fillerRE      = regexp.MustCompile(`(?i)\b(spent|bought|paid|value|price|reais)\b|(?i)r\$`)
	countSuffixRE = regexp.MustCompile(`(?i)\b(\d+)\s*x\b`)
	countPhraseRE = regexp.MustCompile(`(?i)installments?\s+of\s+(\d+)`)
)

// Expense is the structured result of parsing one message.
type Expense struct {
	Amount      decimal.Decimal
	Description string
}

// Parse extracts the first currency-like token from text and returns it as an
// exact decimal together with the cleaned-up residual description. The token
// uses '.' as thousands and ',' as decimal separator. Returns ErrNoAmount when
// no token is present or the token does not convert.
func Parse(text string) (*Expense, error) {
	loc := amountRE.FindStringIndex(text)
	if loc == nil {
		return nil, ErrNoAmount
	}

	amount, err := money.Parse(text[loc[0]:loc[1]])
	if err != nil {
		return nil, ErrNoAmount
	}

	desc := text[:loc[0]] + text[loc[1]:]
	desc = fillerRE.ReplaceAllString(desc, "")
	desc = strings.Join(strings.Fields(desc), " ")
	desc = capitalize(desc)
	if desc == "" {
		desc = DefaultDescription
	}

	return &Expense{Amount: amount, Description: desc}, nil
}

// DetectInstallment reports the installment count when the text contains an
// installment expression ("10x" or "installments of 10"). This is the
// pre-check callers run before falling back to Parse for a plain expense.
func DetectInstallment(text string) (int, bool) {
	m := countSuffixRE.FindStringSubmatch(text)
	if m == nil {
		m = countPhraseRE.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 {
		return 0, false
	}
	return count, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
