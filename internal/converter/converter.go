// Package converter runs ledger exports through the normalizer and the
// statement assembler. It owns one Assembler per run and persists the
// statement text only when the whole run succeeded.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"swiftgen/mt9gen/internal/common"
	"swiftgen/mt9gen/internal/fileutils"
	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/models"
	"swiftgen/mt9gen/internal/mt9"
	"swiftgen/mt9gen/internal/normalizer"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/google/uuid"
)

// ErrInputNotFound is returned when the input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// Result describes one finished conversion run.
type Result struct {
	RunID string
	Text  string
	Stats mt9.Stats
}

// Converter turns ledger exports into MT940/MT950 statement text.
type Converter struct {
	settings   mt9.Settings
	normalizer *normalizer.Normalizer
	logger     logging.Logger
	clock      func() time.Time
	newRunID   func() string
}

// Option configures a Converter.
type Option func(*Converter)

// WithClock sets the clock handed to every Assembler.
func WithClock(clock func() time.Time) Option {
	return func(c *Converter) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRunIDGenerator replaces the uuid run id generator.
func WithRunIDGenerator(gen func() string) Option {
	return func(c *Converter) {
		if gen != nil {
			c.newRunID = gen
		}
	}
}

// New creates a Converter. A nil logger falls back to a default logrus logger.
func New(settings mt9.Settings, n *normalizer.Normalizer, logger logging.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text", logging.WithComponent("converter"))
	}
	if n == nil {
		n = normalizer.New(models.LayoutYYYYMMDD, true)
	}
	c := &Converter{
		settings:   settings,
		normalizer: n,
		logger:     logger,
		clock:      time.Now,
		newRunID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger replaces the logger.
func (c *Converter) SetLogger(logger logging.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// MessageType returns the message type the Converter produces.
func (c *Converter) MessageType() models.MessageType {
	return c.settings.MessageType
}

// Convert reads a ledger export and returns the assembled statement text.
// The first malformed or unparseable record aborts the run.
func (c *Converter) Convert(ctx context.Context, in io.Reader) (*Result, error) {
	runID := c.newRunID()
	log := c.logger.WithFields(
		logging.F(logging.FieldRunID, runID),
		logging.F(logging.FieldMessageType, string(c.settings.MessageType)),
	)
	started := time.Now()

	assembler := mt9.NewAssembler(c.settings, mt9.WithClock(c.clock))
	err := c.eachRecord(ctx, in, func(line int, rec models.Record) error {
		log.Debug("Processing record",
			logging.F(logging.FieldLine, line),
			logging.F(logging.FieldAccount, rec.Account),
			logging.F(logging.FieldPage, rec.PageNumber))
		return assembler.Process(rec)
	})
	if err != nil {
		log.WithError(err).Error("Conversion aborted")
		return nil, err
	}
	if err := assembler.Finalize(); err != nil {
		log.WithError(err).Error("Conversion aborted")
		return nil, err
	}

	stats := assembler.Stats()
	log.Info("Conversion completed",
		logging.F(logging.FieldCount, stats.Records),
		logging.F(logging.FieldMessages, stats.Messages),
		logging.F(logging.FieldPages, stats.Pages),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))

	return &Result{RunID: runID, Text: assembler.Text(), Stats: stats}, nil
}

// ConvertFile converts inPath and writes the statement to outPath. The
// output file is only created when the conversion succeeded.
func (c *Converter) ConvertFile(ctx context.Context, inPath, outPath string) (*Result, error) {
	log := c.logger.WithFields(
		logging.F(logging.FieldInputFile, inPath),
		logging.F(logging.FieldOutputFile, outPath))

	if !fileutils.FileExists(inPath) {
		log.Warn("Input file not found")
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inPath)
	}

	f, err := os.Open(inPath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	result, err := c.Convert(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error converting %s: %w", inPath, err)
	}

	err = fileutils.WriteFileAtomic(outPath, func(w io.Writer) error {
		_, err := io.WriteString(w, result.Text)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error writing %s: %w", outPath, err)
	}

	log.Info("Statement file written", logging.F(logging.FieldRunID, result.RunID))
	return result, nil
}

// ValidateFormat reports whether every data row of the file has the record
// width and at least one data row exists.
func (c *Converter) ValidateFormat(filePath string) (bool, error) {
	if !fileutils.FileExists(filePath) {
		return false, fmt.Errorf("%w: %s", ErrInputNotFound, filePath)
	}
	f, err := fileutils.OpenFile(filePath)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	rows := 0
	valid := true
	err = common.ReadRecords(f, func(line int, raw models.RawRecord) error {
		rows++
		if len(raw) != models.RecordWidth {
			c.logger.Warn("Record has wrong column count",
				logging.F(logging.FieldFile, filePath),
				logging.F(logging.FieldLine, line),
				logging.F(logging.FieldFieldCount, len(raw)))
			valid = false
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return valid && rows > 0, nil
}

// NormalizeRecords reads a ledger export and returns its normalized records.
func (c *Converter) NormalizeRecords(ctx context.Context, in io.Reader) ([]models.Record, error) {
	records := []models.Record{}
	err := c.eachRecord(ctx, in, func(_ int, rec models.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// NormalizeFile writes the normalized records of inPath as CSV to outPath and
// returns how many records were written.
func (c *Converter) NormalizeFile(ctx context.Context, inPath, outPath string) (int, error) {
	if !fileutils.FileExists(inPath) {
		return 0, fmt.Errorf("%w: %s", ErrInputNotFound, inPath)
	}
	f, err := os.Open(inPath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	records, err := c.NormalizeRecords(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("error normalizing %s: %w", inPath, err)
	}
	err = fileutils.WriteFileAtomic(outPath, func(w io.Writer) error {
		return common.WriteNormalizedCSV(records, w)
	})
	if err != nil {
		return 0, fmt.Errorf("error writing %s: %w", outPath, err)
	}

	c.logger.Info("Normalized records written",
		logging.F(logging.FieldInputFile, inPath),
		logging.F(logging.FieldOutputFile, outPath),
		logging.F(logging.FieldCount, len(records)))
	return len(records), nil
}

// eachRecord checks width, normalizes and hands every data row to fn.
func (c *Converter) eachRecord(ctx context.Context, in io.Reader, fn func(line int, rec models.Record) error) error {
	return common.ReadRecords(in, func(line int, raw models.RawRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := models.NewRecord(raw)
		if err != nil {
			var malformed *parsererror.MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Line = line
			}
			return err
		}

		rec, err = c.normalizer.Normalize(rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		return fn(line, rec)
	})
}

// OutputName returns the default statement file name for a run started at
// now, e.g. MT940.2024_03_09_14_05_00.fin.
func OutputName(messageType models.MessageType, now time.Time, extension string) string {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return fmt.Sprintf("MT%s.%s%s", messageType, now.Format("2006_01_02_15_04_05"), extension)
}
