// Package batch converts every ledger export of a directory into its own
// statement file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"swiftgen/mt9gen/internal/converter"
	"swiftgen/mt9gen/internal/fileutils"
	"swiftgen/mt9gen/internal/logging"
)

// FileConverter converts one ledger export into one statement file.
type FileConverter interface {
	ConvertFile(ctx context.Context, inPath, outPath string) (*converter.Result, error)
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input  string
	Output string
	Err    error
}

// Summary describes a batch run.
type Summary struct {
	Files     []FileResult
	Converted int
	Failed    int
}

// Processor runs a FileConverter over a directory.
type Processor struct {
	converter FileConverter
	logger    logging.Logger
	inputExt  string
	outputExt string
}

// NewProcessor creates a Processor reading inputExt files and writing
// outputExt files.
func NewProcessor(conv FileConverter, logger logging.Logger, inputExt, outputExt string) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text", logging.WithComponent("batch"))
	}
	return &Processor{
		converter: conv,
		logger:    logger,
		inputExt:  dotted(inputExt),
		outputExt: dotted(outputExt),
	}
}

// Run converts the files of inputDir into outputDir. A failing file is
// logged and does not stop the run; cancelling ctx does.
func (p *Processor) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	files, err := fileutils.ListFilesWithExtension(inputDir, p.inputExt)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(files) == 0 {
		p.logger.Warn("No supported files found in input directory",
			logging.F(logging.FieldFile, inputDir))
		return summary, nil
	}

	p.logger.Info("Found files for processing", logging.F(logging.FieldCount, len(files)))

	for _, in := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		out := filepath.Join(outputDir, p.OutputFilename(in))
		_, err := p.converter.ConvertFile(ctx, in, out)
		summary.Files = append(summary.Files, FileResult{Input: in, Output: out, Err: err})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			summary.Failed++
			p.logger.WithError(err).Error("Failed to convert file",
				logging.F(logging.FieldInputFile, filepath.Base(in)))
			continue
		}
		summary.Converted++
	}

	p.logger.Info("Batch processing completed",
		logging.F(logging.FieldCount, summary.Converted),
		logging.F(logging.FieldStatus, fmt.Sprintf("%d failed", summary.Failed)))
	return summary, nil
}

// OutputFilename maps an input path to the statement file name.
func (p *Processor) OutputFilename(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + p.outputExt
}

func dotted(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
