package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/models"
	"swiftgen/mt9gen/internal/mt9"
	"swiftgen/mt9gen/internal/normalizer"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerRow(mutate func(row []string)) string {
	row := []string{
		"bankbebb", "bankdeff", "ACC1", "12", "1",
		"c", "f", "15-10-2015", "1000.00",
		"16-10-2015", "16-10-2015", "d", "250.50", "NTRF", "CUSTREF", "BANKREF",
		"",
		"c", "f", "16-10-2015", "749.50",
		"", "", "",
		"EUR", "Invoice 42", "",
	}
	if mutate != nil {
		mutate(row)
	}
	return strings.Join(row, ",")
}

func ledgerHeader() string {
	row := make([]string, models.RecordWidth)
	for i := range row {
		row[i] = "col"
	}
	row[models.ColReference4] = "Ref 4 (MT940 only)"
	return strings.Join(row, ",")
}

func newTestConverter(t *testing.T) (*Converter, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	c := New(mt9.DefaultSettings(), normalizer.New(models.LayoutDDMMYYYY, true), logger,
		WithRunIDGenerator(func() string { return "run-1" }),
		WithClock(func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }))
	return c, logger
}

func TestConvert(t *testing.T) {
	c, logger := newTestConverter(t)
	input := strings.Join([]string{
		ledgerHeader(),
		ledgerRow(nil),
		ledgerRow(func(r []string) { r[models.ColReference4] = "" }),
	}, "\n")

	result, err := c.Convert(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, mt9.Stats{Records: 2, Messages: 1, Pages: 1, AutoReferences: 1}, result.Stats)
	assert.Equal(t, strings.Join([]string{
		"{1:F21BANKBEBBXXXX0000000000}{2:I940BANKDEFFXXXXN}{3:{108:MT940950GEN}}{4:",
		":20:MT94050GEN000000",
		":25:ACC1",
		":28C:00012/00001",
		":60F:C151015EUR1000,00",
		":61:1510161016D250,50NTRFCUSTREF//BANKREF",
		":86:Invoice 42",
		":61:1510161016D250,50NTRFCUSTREF//BANKREF",
		":62F:C151016EUR749,50",
		"-}{5:}",
	}, "\n"), result.Text)
	assert.True(t, logger.HasEntry("INFO", "Conversion completed"))
}

func TestConvert_MalformedRecordAborts(t *testing.T) {
	c, logger := newTestConverter(t)
	short := strings.Join(strings.Split(ledgerRow(nil), ",")[:26], ",")
	input := strings.Join([]string{ledgerRow(nil), short, ledgerRow(nil)}, "\n")

	result, err := c.Convert(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, result)

	var malformed *parsererror.MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, 26, malformed.FieldCount)
	assert.True(t, logger.HasEntry("ERROR", "Conversion aborted"))
}

func TestConvert_StrictDateError(t *testing.T) {
	c, _ := newTestConverter(t)
	input := ledgerRow(func(r []string) { r[models.ColValueDate] = "31-02-2015" })

	_, err := c.Convert(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	var parseErr *parsererror.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "value_date", parseErr.Field)
	assert.Contains(t, err.Error(), "line 1")
}

func TestConvert_NoRecords(t *testing.T) {
	c, _ := newTestConverter(t)

	_, err := c.Convert(context.Background(), strings.NewReader(ledgerHeader()+"\n"))
	assert.ErrorIs(t, err, mt9.ErrNoRecords)
}

func TestConvert_Cancelled(t *testing.T) {
	c, _ := newTestConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, strings.NewReader(ledgerRow(nil)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertFile(t *testing.T) {
	c, _ := newTestConverter(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "ledger.csv")
	out := filepath.Join(dir, "out", "MT940.fin")
	require.NoError(t, os.WriteFile(in, []byte(ledgerRow(nil)), 0600))

	result, err := c.ConvertFile(context.Background(), in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, result.Text, string(data))
	assert.True(t, strings.HasSuffix(string(data), "-}{5:}"))
}

func TestConvertFile_MalformedLeavesNoOutput(t *testing.T) {
	c, _ := newTestConverter(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "ledger.csv")
	out := filepath.Join(dir, "MT940.fin")
	short := strings.Join(strings.Split(ledgerRow(nil), ",")[:26], ",")
	require.NoError(t, os.WriteFile(in, []byte(ledgerRow(nil)+"\n"+short), 0600))

	_, err := c.ConvertFile(context.Background(), in, out)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFile_MissingInput(t *testing.T) {
	c, logger := newTestConverter(t)
	dir := t.TempDir()

	_, err := c.ConvertFile(context.Background(), filepath.Join(dir, "missing.csv"), filepath.Join(dir, "out.fin"))
	assert.ErrorIs(t, err, ErrInputNotFound)
	assert.True(t, logger.HasEntry("WARN", "Input file not found"))
}

func TestValidateFormat(t *testing.T) {
	c, _ := newTestConverter(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"valid", ledgerHeader() + "\n" + ledgerRow(nil), true},
		{"short row", ledgerRow(nil) + "\nA,B,C", false},
		{"header only", ledgerHeader(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			got, err := c.ValidateFormat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.ValidateFormat(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestNormalizeFile(t *testing.T) {
	c, _ := newTestConverter(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "ledger.csv")
	out := filepath.Join(dir, "normalized.csv")
	require.NoError(t, os.WriteFile(in, []byte(ledgerHeader()+"\n"+ledgerRow(nil)), 0600))

	n, err := c.NormalizeFile(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "sender_bic,"))
	assert.Contains(t, lines[1], "151015")
	assert.Contains(t, lines[1], `"1000,00"`)
}

func TestOutputName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	assert.Equal(t, "MT940.2024_03_09_14_05_00.fin", OutputName(models.MT940, now, ".fin"))
	assert.Equal(t, "MT950.2024_03_09_14_05_00.txt", OutputName(models.MT950, now, "txt"))
	assert.Equal(t, "MT940.2024_03_09_14_05_00", OutputName(models.MT940, now, ""))
}
