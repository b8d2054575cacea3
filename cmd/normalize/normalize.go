// Package normalize handles the normalize command, which writes the
// normalized form of a ledger export without generating a statement.
package normalize

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"swiftgen/mt9gen/cmd/common"
	"swiftgen/mt9gen/cmd/root"
	"swiftgen/mt9gen/internal/converter"
	"swiftgen/mt9gen/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Write the normalized form of a ledger export",
	Long: `Normalize a ledger CSV export and write the result as CSV.

Dates become YYMMDD, amounts use the SWIFT decimal comma, BICs are padded
and optional fields are trimmed. The output can be converted again with the
convert command and yields the same statement.

Example:
  mt9gen normalize -i ledger.csv -o ledger.normalized.csv`,
	Run: normalizeFunc,
}

// Normalizer is the part of the converter the command needs.
type Normalizer interface {
	NormalizeFile(ctx context.Context, inPath, outPath string) (int, error)
}

func normalizeFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()

	if root.SharedFlags.Input == "" {
		logger.Fatal("Input file must be specified with --input")
		return
	}
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	output := root.SharedFlags.Output
	if output == "" {
		output = DefaultOutput(root.SharedFlags.Input)
	}
	if err := Normalize(common.Context(cmd), appContainer.GetConverter(), root.SharedFlags.Input, output, logger); err != nil {
		logger.Fatalf("Error normalizing file: %v", err)
	}
}

// Normalize runs n and reports a missing input as a warning.
func Normalize(ctx context.Context, n Normalizer, input, output string, logger logging.Logger) error {
	count, err := n.NormalizeFile(ctx, input, output)
	if errors.Is(err, converter.ErrInputNotFound) {
		logger.Warn("Input file not found, nothing normalized",
			logging.F(logging.FieldInputFile, input))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("Normalization completed successfully!",
		logging.F(logging.FieldOutputFile, output),
		logging.F(logging.FieldCount, count))
	return nil
}

// DefaultOutput derives "<name>.normalized.csv" from the input path.
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".normalized.csv"
}
