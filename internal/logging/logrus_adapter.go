package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter implements Logger on top of a logrus entry. Derived loggers
// share the underlying logrus.Logger and therefore its level and output.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// AdapterOption customizes the logrus logger built by NewLogrusAdapter.
type AdapterOption func(*logrus.Logger, *logrus.Entry) *logrus.Entry

// WithOutput sends entries to out instead of stderr. Statement text may be
// written to stdout, so logs never default there.
func WithOutput(out io.Writer) AdapterOption {
	return func(l *logrus.Logger, e *logrus.Entry) *logrus.Entry {
		if out != nil {
			l.SetOutput(out)
		}
		return e
	}
}

// WithExitFunc replaces os.Exit for Fatal and Fatalf.
func WithExitFunc(exit func(int)) AdapterOption {
	return func(l *logrus.Logger, e *logrus.Entry) *logrus.Entry {
		if exit != nil {
			l.ExitFunc = exit
		}
		return e
	}
}

// WithComponent tags every entry with FieldComponent.
func WithComponent(name string) AdapterOption {
	return func(_ *logrus.Logger, e *logrus.Entry) *logrus.Entry {
		return e.WithField(FieldComponent, name)
	}
}

// NewLogrusAdapter builds a logger for the configured log.level and
// log.format. An unknown level falls back to info, any format other than
// "json" gives text with full timestamps.
func NewLogrusAdapter(level, format string, opts ...AdapterOption) Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	entry := logrus.NewEntry(logger)
	for _, opt := range opts {
		entry = opt(logger, entry)
	}
	return &LogrusAdapter{logger: logger, entry: entry}
}

// NewLogrusAdapterFromLogger wraps an existing logrus.Logger, such as the
// bootstrap logger used before configuration is loaded.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) {
	l.with(fields).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, fields ...Field) {
	l.with(fields).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Field) {
	l.with(fields).Warn(msg)
}

func (l *LogrusAdapter) Error(msg string, fields ...Field) {
	l.with(fields).Error(msg)
}

// Fatal logs and calls the logger's exit function.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) {
	l.with(fields).Fatal(msg)
}

// Fatalf logs and calls the logger's exit function.
func (l *LogrusAdapter) Fatalf(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

func (l *LogrusAdapter) WithError(err error) Logger {
	return l.derive(l.entry.WithError(err))
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.derive(l.entry.WithField(key, value))
}

func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.derive(l.with(fields))
}

// Level returns the level of the underlying logrus logger.
func (l *LogrusAdapter) Level() logrus.Level {
	return l.logger.GetLevel()
}

func (l *LogrusAdapter) derive(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

func (l *LogrusAdapter) with(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(convertFields(fields))
}

func convertFields(fields []Field) logrus.Fields {
	logrusFields := make(logrus.Fields, len(fields))
	for _, field := range fields {
		logrusFields[field.Key] = field.Value
	}
	return logrusFields
}
