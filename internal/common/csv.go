// Package common provides the CSV record source and sink shared by the
// converter and the CLI commands.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"swiftgen/mt9gen/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter separates the columns of ledger exports and normalized CSV output.
var Delimiter rune = ','

// SetDelimiter sets the delimiter used for reading and writing CSV.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// RecordFunc receives one data row with its 1-based line number in the source.
type RecordFunc func(line int, raw models.RawRecord) error

// ReadRecords streams the rows of a ledger export to fn. The label row and
// rows with an empty first column are skipped. Rows of any width are passed
// on; checking the width is up to fn. Reading stops at the first error
// returned by fn.
func ReadRecords(r io.Reader, fn RecordFunc) error {
	reader := newReader(r)
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		row++
		if err != nil {
			return fmt.Errorf("error reading CSV row %d: %w", row, err)
		}

		line := row
		if cr, ok := reader.(*csv.Reader); ok {
			line, _ = cr.FieldPos(0)
		}

		raw := models.RawRecord(fields)
		if raw.IsBlank() || raw.IsHeader() {
			continue
		}
		if err := fn(line, raw); err != nil {
			return err
		}
	}
}

// ReadAllRecords collects the data rows of a ledger export.
func ReadAllRecords(r io.Reader) ([]models.RawRecord, error) {
	var rows []models.RawRecord
	err := ReadRecords(r, func(_ int, raw models.RawRecord) error {
		rows = append(rows, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteNormalizedCSV writes records with a named header row.
func WriteNormalizedCSV(records []models.Record, w io.Writer) error {
	if records == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}
	writer := gocsv.DefaultCSVWriter(w)
	writer.Comma = Delimiter
	if err := gocsv.MarshalCSV(&records, writer); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// newReader returns gocsv's lazy reader configured for positional rows:
// rows of varying width are allowed and leading spaces are kept because
// they can be part of a free-text field.
func newReader(r io.Reader) gocsv.CSVReader {
	reader := gocsv.LazyCSVReader(r)
	if cr, ok := reader.(*csv.Reader); ok {
		cr.Comma = Delimiter
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = false
	}
	return reader
}
