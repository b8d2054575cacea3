package inspect

import (
	"bytes"
	"strings"
	"testing"

	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statement(closing string) string {
	return strings.Join([]string{
		"{1:F21BANKBEBBXXXX0000000000}{2:I940BANKDEFFXXXXN}{3:{108:MT940950GEN}}{4:",
		":20:MT94050GEN000000",
		":25:ACC1",
		":28C:00012/00001",
		":60F:C151015EUR1000,00",
		":61:1510161016D250,50NTRFCUSTREF//BANKREF",
		":86:Invoice 42",
		":62F:C151016EUR" + closing,
		"-}{5:}",
	}, "\n")
}

func TestInspectCommand_Metadata(t *testing.T) {
	assert.Equal(t, "inspect", Cmd.Use)
	assert.Contains(t, Cmd.Long, "closing balance")
	assert.NotNil(t, Cmd.Run)
}

func TestInspect_Balanced(t *testing.T) {
	var out bytes.Buffer
	logger := logging.NewMockLogger()

	report, err := Inspect(statement("749,50"), &out, logger)
	require.NoError(t, err)

	assert.Equal(t, &Report{Messages: 1, Pages: 1, Transactions: 1}, report)
	assert.Equal(t, "1\tMT94050GEN000000\tACC1\t00012/00001\t1\tCEUR 749.50\n", out.String())
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
	assert.True(t, logger.HasEntry("INFO", "Inspection completed"))
}

func TestInspect_Unbalanced(t *testing.T) {
	var out bytes.Buffer
	logger := logging.NewMockLogger()

	report, err := Inspect(statement("700,00"), &out, logger)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Unbalanced)
	warnings := logger.GetEntriesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, "Page does not reconcile", warnings[0].Message)
}

func TestInspect_InvalidText(t *testing.T) {
	_, err := Inspect(":20:ORPHAN", &bytes.Buffer{}, logging.NewMockLogger())
	require.Error(t, err)
	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
}
