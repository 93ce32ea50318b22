package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "detections table failed validation",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] detections table failed validation",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to parse detections.csv",
				Cause:   fmt.Errorf("record On line 3: wrong number of fields"),
			},
			wantMessage: "[PARSING] failed to parse detections.csv: record On line 3: wrong number of fields",
		},
		{
			name: "error with storage cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write matrix",
				Cause:   errors.New("disk full"),
			},
			wantMessage: "[STORAGE] failed to write matrix: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("original error")
	wrapped := NewParsingError("failed to read header", cause)

	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("loading dataset: %w", wrapped), &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("failed to write output", nil).
		WithContext("path", "/data/outputs/time_series_matrix.csv").
		WithContext("rows", 10)

	require.NotNil(t, err.Context)
	assert.Equal(t, "/data/outputs/time_series_matrix.csv", err.Context["path"])
	assert.Equal(t, 10, err.Context["rows"])
}

func TestNewAppError_Helpers(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{
			name:     "parsing helper",
			err:      NewParsingError("bad csv", nil),
			wantType: ErrTypeParsing,
		},
		{
			name:     "storage helper",
			err:      NewStorageError("write failed", nil),
			wantType: ErrTypeStorage,
		},
		{
			name:     "validation helper",
			err:      NewAppValidationError("missing column"),
			wantType: ErrTypeValidation,
		},
		{
			name:     "not found helper",
			err:      NewNotFoundError("detections.csv"),
			wantType: ErrTypeNotFound,
		},
		{
			name:     "config helper",
			err:      NewConfigError("invalid port", nil),
			wantType: ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantType, tt.err.Type)
		})
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("injections.csv")
	assert.Equal(t, "[NOT_FOUND] injections.csv not found", err.Error())
}
