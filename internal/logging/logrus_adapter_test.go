package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel},
		{"info level with json format", "info", "json", logrus.InfoLevel},
		{"upper-case level", "WARN", "text", logrus.WarnLevel},
		{"invalid level defaults to info", "invalid", "text", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.Level())

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapter_Options(t *testing.T) {
	var buf bytes.Buffer
	exitCode := -1
	logger := NewLogrusAdapter("info", "JSON",
		WithOutput(&buf),
		WithComponent("converter"),
		WithExitFunc(func(code int) { exitCode = code }))

	logger.Info("statement written", F(FieldMessages, 2), F(FieldPages, 3))

	out := buf.String()
	assert.Contains(t, out, `"msg":"statement written"`)
	assert.Contains(t, out, `"messages":2`)
	assert.Contains(t, out, `"pages":3`)
	assert.Contains(t, out, `"component":"converter"`)

	buf.Reset()
	logger.WithField(FieldLine, 4).Fatalf("bad column count %d", 26)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, buf.String(), `"msg":"bad column count 26"`)
	assert.Contains(t, buf.String(), `"component":"converter"`)
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		existing := logrus.New()
		existing.SetLevel(logrus.DebugLevel)

		adapter, ok := NewLogrusAdapterFromLogger(existing).(*LogrusAdapter)
		require.True(t, ok)
		assert.Equal(t, existing, adapter.logger)
	})

	t.Run("with nil logger creates new one", func(t *testing.T) {
		adapter, ok := NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
		require.True(t, ok)
		assert.NotNil(t, adapter.logger)
	})
}

func newBufferedLogger(level logrus.Level) (Logger, *bytes.Buffer) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(l), &buf
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
	}{
		{"Debug", func(l Logger, m string, f ...Field) { l.Debug(m, f...) }, "page opened"},
		{"Info", func(l Logger, m string, f ...Field) { l.Info(m, f...) }, "conversion finished"},
		{"Warn", func(l Logger, m string, f ...Field) { l.Warn(m, f...) }, "input file not found"},
		{"Error", func(l Logger, m string, f ...Field) { l.Error(m, f...) }, "conversion aborted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedLogger(logrus.DebugLevel)
			tt.logFunc(logger, tt.message, F(FieldAccount, "DE89370400440532013000"))

			assert.Contains(t, buf.String(), tt.message)
			assert.Contains(t, buf.String(), FieldAccount)
		})
	}
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.InfoLevel)

	logger.
		WithField(FieldRunID, "run-1").
		WithFields(F(FieldLine, 7), F(FieldFieldCount, 26)).
		WithError(errors.New("bad column count")).
		Error("conversion aborted")

	out := buf.String()
	assert.Contains(t, out, "conversion aborted")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "field_count=26")
	assert.Contains(t, out, "bad column count")
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("a", "x"), F("b", 42)})
	assert.Len(t, fields, 2)
	assert.Equal(t, "x", fields["a"])
	assert.Equal(t, 42, fields["b"])

	assert.Len(t, convertFields(nil), 0)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
