package common_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"swiftgen/mt9gen/cmd/common"
	"swiftgen/mt9gen/internal/converter"
	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/mt9"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFileConverter implements common.FileConverter for testing
type MockFileConverter struct {
	mock.Mock
}

func (m *MockFileConverter) ValidateFormat(file string) (bool, error) {
	args := m.Called(file)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileConverter) ConvertFile(ctx context.Context, inPath, outPath string) (*converter.Result, error) {
	args := m.Called(ctx, inPath, outPath)
	result, _ := args.Get(0).(*converter.Result)
	return result, args.Error(1)
}

func TestProcessFileWithError(t *testing.T) {
	ctx := context.Background()
	ok := &converter.Result{Stats: mt9.Stats{Records: 3, Messages: 1, Pages: 1}}

	tests := []struct {
		name        string
		validate    bool
		setup       func(m *MockFileConverter)
		expectedErr error
		errContains string
	}{
		{
			name: "converts without validation",
			setup: func(m *MockFileConverter) {
				m.On("ConvertFile", ctx, "in.csv", "out.fin").Return(ok, nil)
			},
		},
		{
			name:     "validates then converts",
			validate: true,
			setup: func(m *MockFileConverter) {
				m.On("ValidateFormat", "in.csv").Return(true, nil)
				m.On("ConvertFile", ctx, "in.csv", "out.fin").Return(ok, nil)
			},
		},
		{
			name:     "invalid format stops before conversion",
			validate: true,
			setup: func(m *MockFileConverter) {
				m.On("ValidateFormat", "in.csv").Return(false, nil)
			},
			expectedErr: common.ErrInvalidFormat,
		},
		{
			name:     "validation error",
			validate: true,
			setup: func(m *MockFileConverter) {
				m.On("ValidateFormat", "in.csv").Return(false, errors.New("read failed"))
			},
			errContains: "error validating file",
		},
		{
			name: "conversion error is returned",
			setup: func(m *MockFileConverter) {
				m.On("ConvertFile", ctx, "in.csv", "out.fin").Return(nil, converter.ErrInputNotFound)
			},
			expectedErr: converter.ErrInputNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockFileConverter{}
			tt.setup(m)

			result, err := common.ProcessFileWithError(ctx, m, "in.csv", "out.fin", tt.validate, logging.NewMockLogger())
			switch {
			case errors.Is(tt.expectedErr, common.ErrInvalidFormat):
				assert.ErrorIs(t, err, common.ErrInvalidFormat)
				var validationErr *parsererror.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "in.csv", validationErr.FilePath)
				assert.Nil(t, result)
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, result)
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, ok, result)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestProcessFile_MissingInputIsNotFatal(t *testing.T) {
	ctx := context.Background()
	m := &MockFileConverter{}
	m.On("ConvertFile", ctx, "missing.csv", "out.fin").Return(nil, converter.ErrInputNotFound)
	logger := logging.NewMockLogger()

	common.ProcessFile(ctx, m, "missing.csv", "out.fin", false, logger)

	assert.True(t, logger.HasEntry("WARN", "Input file not found, nothing converted"))
	assert.Empty(t, logger.GetEntriesByLevel("FATAL"))
}

func TestProcessFile_ValidateMissingInputIsNotFatal(t *testing.T) {
	ctx := context.Background()
	m := &MockFileConverter{}
	m.On("ValidateFormat", "missing.csv").Return(false, fmt.Errorf("%w: missing.csv", converter.ErrInputNotFound))
	logger := logging.NewMockLogger()

	common.ProcessFile(ctx, m, "missing.csv", "out.fin", true, logger)

	assert.True(t, logger.HasEntry("WARN", "Input file not found, nothing converted"))
	assert.Empty(t, logger.GetEntriesByLevel("FATAL"))
	m.AssertNotCalled(t, "ConvertFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessFile_ErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	m := &MockFileConverter{}
	m.On("ConvertFile", ctx, "in.csv", "out.fin").Return(nil, errors.New("bad column count 26 on line 4"))
	logger := logging.NewMockLogger()

	common.ProcessFile(ctx, m, "in.csv", "out.fin", false, logger)

	assert.Len(t, logger.GetEntriesByLevel("FATAL"), 1)
}

func TestProcessFile_Success(t *testing.T) {
	ctx := context.Background()
	m := &MockFileConverter{}
	m.On("ConvertFile", ctx, "in.csv", "out.fin").Return(&converter.Result{}, nil)
	logger := logging.NewMockLogger()

	common.ProcessFile(ctx, m, "in.csv", "out.fin", false, logger)

	assert.True(t, logger.HasEntry("INFO", "Conversion completed successfully!"))
}

func TestContext(t *testing.T) {
	assert.NotNil(t, common.Context(nil))
	assert.NotNil(t, common.Context(&cobra.Command{}))
}
