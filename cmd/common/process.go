// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"

	"swiftgen/mt9gen/internal/converter"
	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/spf13/cobra"
)

// ErrInvalidFormat is returned when validation rejects the input file.
var ErrInvalidFormat = errors.New("the file is not in a valid format")

// FileConverter is the part of the converter the commands need.
type FileConverter interface {
	ValidateFormat(filePath string) (bool, error)
	ConvertFile(ctx context.Context, inPath, outPath string) (*converter.Result, error)
}

// ProcessFileWithError validates (optionally) and converts one file.
func ProcessFileWithError(ctx context.Context, c FileConverter, inputFile, outputFile string, validate bool, log logging.Logger) (*converter.Result, error) {
	if validate {
		log.Info("Validating format...")
		valid, err := c.ValidateFormat(inputFile)
		if err != nil {
			return nil, fmt.Errorf("error validating file: %w", err)
		}
		if !valid {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, &parsererror.ValidationError{
				FilePath: inputFile,
				Reason:   "no data rows or a row without 27 columns",
			})
		}
		log.Info("Validation successful.")
	}

	result, err := c.ConvertFile(ctx, inputFile, outputFile)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessFile is ProcessFileWithError for command handlers: a missing input
// file is reported as a warning, every other error is fatal.
func ProcessFile(ctx context.Context, c FileConverter, inputFile, outputFile string, validate bool, log logging.Logger) {
	result, err := ProcessFileWithError(ctx, c, inputFile, outputFile, validate, log)
	if errors.Is(err, converter.ErrInputNotFound) {
		log.Warn("Input file not found, nothing converted",
			logging.F(logging.FieldInputFile, inputFile))
		return
	}
	if err != nil {
		log.Fatalf("Error converting file: %v", err)
		return
	}
	log.Info("Conversion completed successfully!",
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldMessages, result.Stats.Messages),
		logging.F(logging.FieldPages, result.Stats.Pages),
		logging.F(logging.FieldTransactions, result.Stats.Records))
}

// Context returns the command context, or a background context when the
// command runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
