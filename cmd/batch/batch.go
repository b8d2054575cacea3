// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"

	"swiftgen/mt9gen/cmd/common"
	"swiftgen/mt9gen/cmd/root"
	"swiftgen/mt9gen/internal/batch"
	"swiftgen/mt9gen/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch convert ledger exports from a directory",
	Long: `Batch convert every CSV ledger export of an input directory into an
MT940/MT950 file in the output directory.

Each file is converted independently; a malformed file is reported and the
remaining files are still converted. Output files keep the input base name
with the configured output extension.

Example:
  mt9gen batch -i input_dir/ -o output_dir/`,
	Run: batchFunc,
}

func init() {
	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()

	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		logger.Fatal("Input and output directories must be specified")
		return
	}

	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	summary, err := RunBatch(common.Context(cmd), appContainer.GetBatchProcessor(), inputDir, outputDir, logger)
	if err != nil {
		logger.Fatalf("Error during batch conversion: %v", err)
		return
	}
	if summary.Failed > 0 {
		logger.Warn(fmt.Sprintf("%d of %d files failed", summary.Failed, len(summary.Files)))
	}
}

// Runner is the part of the batch processor the command needs.
type Runner interface {
	Run(ctx context.Context, inputDir, outputDir string) (*batch.Summary, error)
}

// RunBatch runs r over inputDir and logs the resulting counts.
func RunBatch(ctx context.Context, r Runner, inputDir, outputDir string, logger logging.Logger) (*batch.Summary, error) {
	logger.Info("Starting batch conversion",
		logging.F(logging.FieldInputFile, inputDir),
		logging.F(logging.FieldOutputFile, outputDir))

	summary, err := r.Run(ctx, inputDir, outputDir)
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Batch processing completed. %d statement files created.", summary.Converted))
	return summary, nil
}
