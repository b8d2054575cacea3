// Package currencyutils converts ledger export amounts into SWIFT amount
// fields and back.
//
// SWIFT amounts use a comma as decimal marker, carry no thousands separators
// and no sign; the sign travels in the debit/credit mark instead.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatSwiftAmount rewrites a ledger amount such as "-1,234.56" into
// "1234,56" without validating it. An amount without decimal marker gets a
// trailing comma. Blank amounts stay blank and amounts already in SWIFT form
// are returned unchanged, so a comma-only value like "1,000" reads as 1.000.
func FormatSwiftAmount(value string) string {
	s := strings.TrimSpace(value)
	if s == "" || IsSwiftAmount(s) {
		return s
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, ".", ",")
	if !strings.Contains(s, ",") {
		s += ","
	}
	return s
}

// ToSwiftAmount is FormatSwiftAmount for amounts that must be well formed:
// digits with at most one decimal point, after thousands separators and the
// sign are removed.
func ToSwiftAmount(value string) (string, error) {
	s := strings.TrimSpace(value)
	if s == "" || IsSwiftAmount(s) {
		return s, nil
	}
	plain := strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), "-", "")
	if !isPlainDecimal(plain) {
		return "", fmt.Errorf("not a decimal amount")
	}
	if _, err := decimal.NewFromString(plain); err != nil {
		return "", fmt.Errorf("not a decimal amount: %w", err)
	}
	return FormatSwiftAmount(s), nil
}

// ParseSwiftAmount reads a SWIFT amount such as "1234,56" or "1234,".
func ParseSwiftAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSuffix(strings.TrimSpace(value), ",")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if strings.Count(s, ",") > 1 || strings.Contains(s, ".") {
		return decimal.Zero, fmt.Errorf("invalid SWIFT amount %q", value)
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid SWIFT amount %q: %w", value, err)
	}
	return d, nil
}

// Signed applies a SWIFT debit/credit mark to an amount. Debits (D) and
// reversals of credits (RC) are negative.
func Signed(amount decimal.Decimal, mark string) decimal.Decimal {
	switch strings.ToUpper(mark) {
	case "D", "RC":
		return amount.Neg()
	default:
		return amount
	}
}

// IsSwiftAmount reports whether s is digits with exactly one decimal comma,
// such as "1234,56" or "1000,".
func IsSwiftAmount(s string) bool {
	whole, _, found := strings.Cut(s, ",")
	if !found || whole == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ',' && (s[i] < '0' || s[i] > '9') {
			return false
		}
	}
	return strings.Count(s, ",") == 1
}

func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
