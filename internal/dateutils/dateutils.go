// Package dateutils converts ledger export dates into SWIFT date fields.
//
// Source dates are fixed-width ten character strings such as 15-10-2015 or
// 2015/10/15. The separator characters are not significant; only their
// positions are.
package dateutils

import (
	"fmt"
	"time"

	"swiftgen/mt9gen/internal/models"
)

const (
	// SwiftDateLayout is the YYMMDD form used by balance and value dates.
	SwiftDateLayout = "060102"
	// SwiftEntryDateLayout is the MMDD form used by the entry date of field 61.
	SwiftEntryDateLayout = "0102"

	sourceDateWidth = 10
)

// offsets holds the start index of the two-digit year, month and day
// substrings within a source date.
type offsets struct {
	year, month, day int
}

var layoutOffsets = map[models.DateLayout]offsets{
	models.LayoutYYYYMMDD: {year: 2, month: 5, day: 8},
	models.LayoutDDMMYYYY: {year: 8, month: 3, day: 0},
	models.LayoutMMDDYYYY: {year: 8, month: 0, day: 3},
}

// ParseSourceDate parses a fixed-width source date in the given layout and
// checks that it is a real calendar date.
func ParseSourceDate(value string, layout models.DateLayout) (time.Time, error) {
	if len(value) != sourceDateWidth {
		return time.Time{}, fmt.Errorf("expected %d characters, got %d", sourceDateWidth, len(value))
	}

	first, second := 2, 5
	if layout == models.LayoutYYYYMMDD {
		first, second = 4, 7
	}
	sep1, sep2 := value[first], value[second]
	if isDigit(sep1) || isDigit(sep2) {
		return time.Time{}, fmt.Errorf("missing separators for layout %s", layout)
	}

	var goLayout string
	switch layout {
	case models.LayoutYYYYMMDD:
		goLayout = "2006" + string(sep1) + "01" + string(sep2) + "02"
	case models.LayoutDDMMYYYY:
		goLayout = "02" + string(sep1) + "01" + string(sep2) + "2006"
	case models.LayoutMMDDYYYY:
		goLayout = "01" + string(sep1) + "02" + string(sep2) + "2006"
	default:
		return time.Time{}, fmt.Errorf("unsupported date layout %q", layout)
	}

	t, err := time.Parse(goLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	return t, nil
}

// ToSwiftDate converts a source date to YYMMDD. Blank values stay blank and
// values already in YYMMDD form are returned unchanged.
func ToSwiftDate(value string, layout models.DateLayout) (string, error) {
	if value == "" || IsSwiftDate(value) {
		return value, nil
	}
	t, err := ParseSourceDate(value, layout)
	if err != nil {
		return "", err
	}
	return t.Format(SwiftDateLayout), nil
}

// ToSwiftEntryDate converts a source date to MMDD.
func ToSwiftEntryDate(value string, layout models.DateLayout) (string, error) {
	if value == "" || IsSwiftEntryDate(value) {
		return value, nil
	}
	t, err := ParseSourceDate(value, layout)
	if err != nil {
		return "", err
	}
	return t.Format(SwiftEntryDateLayout), nil
}

// SliceSwiftDate rebuilds YYMMDD from fixed offsets without validating the
// source. Short or malformed values produce short or meaningless output.
func SliceSwiftDate(value string, layout models.DateLayout) string {
	if IsSwiftDate(value) {
		return value
	}
	o := offsetsFor(layout)
	return substr(value, o.year, o.year+2) + substr(value, o.month, o.month+2) + substr(value, o.day, o.day+2)
}

// SliceSwiftEntryDate is SliceSwiftDate for the MMDD entry date.
func SliceSwiftEntryDate(value string, layout models.DateLayout) string {
	if IsSwiftEntryDate(value) {
		return value
	}
	o := offsetsFor(layout)
	return substr(value, o.month, o.month+2) + substr(value, o.day, o.day+2)
}

// IsSwiftDate reports whether s is six digits.
func IsSwiftDate(s string) bool {
	return len(s) == 6 && allDigits(s)
}

// IsSwiftEntryDate reports whether s is four digits.
func IsSwiftEntryDate(s string) bool {
	return len(s) == 4 && allDigits(s)
}

func offsetsFor(layout models.DateLayout) offsets {
	if o, ok := layoutOffsets[layout]; ok {
		return o
	}
	return layoutOffsets[models.LayoutYYYYMMDD]
}

// substr slices like a bounds-tolerant s[from:to].
func substr(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
