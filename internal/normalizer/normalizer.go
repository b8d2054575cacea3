// Package normalizer rewrites statement records into SWIFT textual form:
// codes and signs upper-cased, amounts with a decimal comma and no sign,
// dates as YYMMDD (MMDD for the entry date).
package normalizer

import (
	"strings"

	"swiftgen/mt9gen/internal/currencyutils"
	"swiftgen/mt9gen/internal/dateutils"
	"swiftgen/mt9gen/internal/models"
	"swiftgen/mt9gen/internal/parsererror"
)

const parserName = "normalizer"

// Normalizer converts records for one date layout. It holds no state between
// records and is safe for concurrent use.
type Normalizer struct {
	layout models.DateLayout
	strict bool
}

// New returns a Normalizer. In strict mode dates must be real calendar dates
// and amounts must be decimals; otherwise malformed values are sliced and
// rewritten without complaint.
func New(layout models.DateLayout, strict bool) *Normalizer {
	return &Normalizer{layout: layout, strict: strict}
}

// Layout returns the source date layout.
func (n *Normalizer) Layout() models.DateLayout {
	return n.layout
}

// Normalize returns the SWIFT form of rec. A record that is already
// normalized is returned as is.
func (n *Normalizer) Normalize(rec models.Record) (models.Record, error) {
	if rec.IsNormalized() {
		return rec, nil
	}

	rec.OpeningSign = strings.ToUpper(rec.OpeningSign)
	rec.OpeningType = strings.ToUpper(rec.OpeningType)
	rec.DebitCredit = strings.ToUpper(rec.DebitCredit)
	rec.ClosingSign = strings.ToUpper(rec.ClosingSign)
	rec.ClosingType = strings.ToUpper(rec.ClosingType)
	rec.AvailableSign = strings.ToUpper(rec.AvailableSign)

	amounts := []struct {
		name  string
		value *string
	}{
		{"opening_amount", &rec.OpeningAmount},
		{"amount", &rec.Amount},
		{"closing_amount", &rec.ClosingAmount},
		{"available_amount", &rec.AvailableAmount},
	}
	for _, a := range amounts {
		v, err := n.amount(a.name, *a.value)
		if err != nil {
			return models.Record{}, err
		}
		*a.value = v
	}

	dates := []struct {
		name  string
		value *string
	}{
		{"opening_date", &rec.OpeningDate},
		{"value_date", &rec.ValueDate},
		{"closing_date", &rec.ClosingDate},
		{"available_date", &rec.AvailableDate},
	}
	for _, d := range dates {
		v, err := n.date(d.name, *d.value)
		if err != nil {
			return models.Record{}, err
		}
		*d.value = v
	}

	entry, err := n.entryDate(rec.EntryDate)
	if err != nil {
		return models.Record{}, err
	}
	rec.EntryDate = entry

	return rec.AsNormalized(), nil
}

// NormalizeRaw normalizes a positional row. The result always has the same
// width as a valid input row.
func (n *Normalizer) NormalizeRaw(raw models.RawRecord) (models.RawRecord, error) {
	rec, err := models.NewRecord(raw)
	if err != nil {
		return nil, err
	}
	rec, err = n.Normalize(rec)
	if err != nil {
		return nil, err
	}
	return rec.Raw(), nil
}

func (n *Normalizer) amount(field, value string) (string, error) {
	if !n.strict {
		return currencyutils.FormatSwiftAmount(value), nil
	}
	v, err := currencyutils.ToSwiftAmount(value)
	if err != nil {
		return "", &parsererror.ParseError{Parser: parserName, Field: field, Value: value, Err: err}
	}
	return v, nil
}

func (n *Normalizer) date(field, value string) (string, error) {
	if !n.strict {
		return dateutils.SliceSwiftDate(value, n.layout), nil
	}
	v, err := dateutils.ToSwiftDate(strings.TrimSpace(value), n.layout)
	if err != nil {
		return "", &parsererror.ParseError{Parser: parserName, Field: field, Value: value, Err: err}
	}
	return v, nil
}

func (n *Normalizer) entryDate(value string) (string, error) {
	if !n.strict {
		return dateutils.SliceSwiftEntryDate(value, n.layout), nil
	}
	v, err := dateutils.ToSwiftEntryDate(strings.TrimSpace(value), n.layout)
	if err != nil {
		return "", &parsererror.ParseError{Parser: parserName, Field: "entry_date", Value: value, Err: err}
	}
	return v, nil
}
