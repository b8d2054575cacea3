// Package inspect handles the inspect command, which reads a generated
// statement file back and checks that every page reconciles.
package inspect

import (
	"errors"
	"fmt"
	"io"

	"swiftgen/mt9gen/cmd/root"
	"swiftgen/mt9gen/internal/fileutils"
	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/mt9"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/spf13/cobra"
)

// Cmd represents the inspect command
var Cmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize and reconcile an MT940/MT950 file",
	Long: `Read an MT940/MT950 file produced by convert and print one line per page:
reference, account, page number, transaction count and closing balance.

A page whose closing balance differs from the opening balance plus its
transactions is reported as a warning.

Example:
  mt9gen inspect -i MT940.2024_03_09_14_05_07.fin`,
	Run: inspectFunc,
}

// Report is the outcome of inspecting one file.
type Report struct {
	Messages     int
	Pages        int
	Transactions int
	Unbalanced   int
}

func inspectFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()

	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		logger.Fatal("Input file must be specified with --input")
		return
	}

	content, err := fileutils.ReadFile(input)
	if err != nil {
		logger.Fatalf("Error reading statement file: %v", err)
		return
	}
	if _, err := Inspect(string(content), cmd.OutOrStdout(), logger); err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = input
		}
		logger.Fatalf("Error inspecting statement file: %v", err)
	}
}

// Inspect parses text, writes a page summary to out and counts pages whose
// balances do not reconcile.
func Inspect(text string, out io.Writer, logger logging.Logger) (*Report, error) {
	messages, err := mt9.ParseMessages(text)
	if err != nil {
		return nil, err
	}

	report := &Report{Messages: len(messages)}
	for i, msg := range messages {
		for _, page := range msg.Pages {
			report.Pages++
			report.Transactions += len(page.Transactions)

			if _, err := fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%d\t%s%s %s\n",
				i+1, page.Reference, page.Account, page.StatementPage,
				len(page.Transactions), page.Closing.Sign, page.Closing.Currency,
				page.Closing.Amount.StringFixed(2)); err != nil {
				return nil, err
			}

			if diff := page.Difference(); !diff.IsZero() {
				report.Unbalanced++
				logger.Warn("Page does not reconcile",
					logging.F(logging.FieldAccount, page.Account),
					logging.F(logging.FieldPage, page.StatementPage),
					logging.F("difference", diff.StringFixed(2)))
			}
		}
	}

	logger.Info("Inspection completed",
		logging.F(logging.FieldMessages, report.Messages),
		logging.F(logging.FieldPages, report.Pages),
		logging.F(logging.FieldTransactions, report.Transactions))
	return report, nil
}
