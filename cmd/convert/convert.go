// Package convert handles the ledger CSV to MT940/MT950 conversion command
package convert

import (
	"time"

	"swiftgen/mt9gen/cmd/common"
	"swiftgen/mt9gen/cmd/root"
	"swiftgen/mt9gen/internal/converter"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a ledger CSV export to an MT940/MT950 file",
	Long: `Convert a ledger CSV export to a SWIFT MT940 or MT950 statement file.

Without --output the file is written to the current directory as
MT<type>.<YYYY_MM_DD_HH_MM_SS>.fin. A malformed row aborts the conversion
and no output file is written.

Example:
  mt9gen convert -i ledger.csv -o statement.fin --message-type 950`,
	Run: convertFunc,
}

// now is replaced in tests
var now = time.Now

func convertFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()

	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}
	if root.SharedFlags.Input == "" {
		logger.Fatal("Input file must be specified with --input")
		return
	}

	conv := appContainer.GetConverter()
	output := OutputPath(root.SharedFlags.Output, conv, appContainer.GetConfig().Output.Extension)

	common.ProcessFile(common.Context(cmd), conv, root.SharedFlags.Input, output, root.SharedFlags.Validate, logger)
}

// OutputPath returns output, or the default timestamped file name when it
// is empty.
func OutputPath(output string, conv *converter.Converter, extension string) string {
	if output != "" {
		return output
	}
	return converter.OutputName(conv.MessageType(), now(), extension)
}
