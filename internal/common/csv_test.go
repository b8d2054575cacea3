package common

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"swiftgen/mt9gen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvRow(fields ...string) string {
	row := make([]string, models.RecordWidth)
	copy(row, fields)
	return strings.Join(row, ",")
}

func headerRow() string {
	row := make([]string, models.RecordWidth)
	row[0] = "Sender BIC"
	row[models.ColReference4] = "Ref 4 (MT940 only)"
	row[models.ColTRN] = "TRN"
	return strings.Join(row, ",")
}

func TestReadRecords(t *testing.T) {
	input := strings.Join([]string{
		headerRow(),
		csvRow("BANKBEBB", "BANKDEFF", "ACC1"),
		csvRow(),
		csvRow("BANKBEBB", "BANKDEFF", "ACC2"),
		"BANKBEBB,short,row",
	}, "\n")

	type seen struct {
		line  int
		width int
		acct  string
	}
	var rows []seen
	err := ReadRecords(strings.NewReader(input), func(line int, raw models.RawRecord) error {
		s := seen{line: line, width: len(raw)}
		if len(raw) > models.ColAccount {
			s.acct = raw[models.ColAccount]
		}
		rows = append(rows, s)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []seen{
		{line: 2, width: models.RecordWidth, acct: "ACC1"},
		{line: 4, width: models.RecordWidth, acct: "ACC2"},
		{line: 5, width: 3, acct: "row"},
	}, rows)
}

func TestReadRecords_StopsOnCallbackError(t *testing.T) {
	input := csvRow("A", "B", "ACC1") + "\n" + csvRow("A", "B", "ACC2")
	boom := errors.New("boom")

	calls := 0
	err := ReadRecords(strings.NewReader(input), func(int, models.RawRecord) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestReadRecords_KeepsLeadingSpaces(t *testing.T) {
	input := csvRow("A", "B", "ACC1", "1", "1", "C", "F", "", "", "", "", "", "", "", "", "", "  /ORDP/ACME")

	rows, err := ReadAllRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "  /ORDP/ACME", rows[0][models.ColSupplementary])
}

func TestReadRecords_QuotedFields(t *testing.T) {
	row := make([]string, models.RecordWidth)
	row[0] = "A"
	row[models.ColReference4] = `"Invoice 42, March"`
	input := strings.Join(row, ",")

	rows, err := ReadAllRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], models.RecordWidth)
	assert.Equal(t, "Invoice 42, March", rows[0][models.ColReference4])
}

func TestReadRecords_Delimiter(t *testing.T) {
	SetDelimiter(';')
	defer SetDelimiter(',')

	row := make([]string, models.RecordWidth)
	row[0] = "A"
	row[models.ColAccount] = "ACC1"

	rows, err := ReadAllRecords(strings.NewReader(strings.Join(row, ";")))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACC1", rows[0][models.ColAccount])
}

func TestWriteNormalizedCSV(t *testing.T) {
	records := []models.Record{
		{SenderBIC: "BANKBEBB", Account: "ACC1", Amount: "250,50", Reference4: "Invoice 42"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteNormalizedCSV(records, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "sender_bic,receiver_bic,account,"))
	assert.True(t, strings.HasSuffix(lines[0], ",reference4,trn"))
	assert.Contains(t, lines[1], `"250,50"`)
	assert.Contains(t, lines[1], "Invoice 42")
}

func TestWriteNormalizedCSV_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteNormalizedCSV(nil, &buf))
}
