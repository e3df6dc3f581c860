// Package normalize converts scraped display text into typed values.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// EmptyPolicy decides what an empty cell means at a given call site.
type EmptyPolicy int

const (
	EmptyFail EmptyPolicy = iota
	EmptyZero
	EmptySkip
)

var (
	currencyTokens = []string{"INR", "Rs.", "Rs", "₹", "$", "€", "£", "¥"}

	minusReplacer = strings.NewReplacer(
		"\u2012", "-", // figure dash
		"\u2013", "-", // en dash
		"\u2014", "-", // em dash
		"\u2212", "-", // minus sign
		"\ufe63", "-",
		"\uff0d", "-",
	)

	spaceReplacer = strings.NewReplacer(
		" ", "",
		"\u00a0", "",
		"\u202f", "",
		"\u2009", "",
		"\t", "",
		"\n", "",
		"\r", "",
	)

	plainNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
	hasDigit    = regexp.MustCompile(`\d`)
)

// ParseNumber converts display text such as "₹1,234.50", "(−45.2)" or
// "+3.1%" into a float64. Empty input is an error.
func ParseNumber(field, raw string) (float64, error) {
	v, _, err := ParseNumberPolicy(field, raw, EmptyFail)
	return v, err
}

// ParseNumberPolicy is ParseNumber with an explicit empty-cell policy.
// The returned bool is false when the cell was empty and skipped.
// A value made only of currency symbols is never treated as empty.
func ParseNumberPolicy(field, raw string, policy EmptyPolicy) (float64, bool, error) {
	d, ok, err := ParseDecimal(field, raw, policy)
	if err != nil || !ok {
		return 0, ok, err
	}
	f, _ := d.Float64()
	return f, true, nil
}

// ParseDecimal is the exact form of ParseNumberPolicy.
func ParseDecimal(field, raw string, policy EmptyPolicy) (decimal.Decimal, bool, error) {
	s := minusReplacer.Replace(spaceReplacer.Replace(raw))
	if s == "" || s == "-" || s == "--" {
		switch policy {
		case EmptyZero:
			return decimal.Zero, true, nil
		case EmptySkip:
			return decimal.Zero, false, nil
		default:
			return decimal.Zero, false, &ParseError{Field: field, Raw: raw, Err: ErrEmpty}
		}
	}

	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")

	if !hasDigit.MatchString(s) {
		return decimal.Zero, false, &ParseError{Field: field, Raw: raw, Err: ErrNoDigits}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
		// An explicit sign inside the parentheses wins over the accounting convention.
		if !strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "+") {
			negative = true
		}
	}
	s = strings.TrimPrefix(s, "+")

	if !plainNumber.MatchString(s) {
		return decimal.Zero, false, &ParseError{Field: field, Raw: raw, Err: ErrMalformed}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, &ParseError{Field: field, Raw: raw, Err: ErrMalformed}
	}
	if negative {
		d = d.Neg()
	}
	return d, true, nil
}
