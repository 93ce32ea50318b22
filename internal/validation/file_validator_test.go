package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name            string
		setupFunc       func(t *testing.T) string
		requiredPattern string
		wantErr         bool
		errorContains   string
	}{
		{
			name: "valid directory with files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "detections.csv")
				require.NoError(t, os.WriteFile(file, []byte("object_id\n"), 0644))
				return dir
			},
			requiredPattern: "*.csv",
			wantErr:         false,
		},
		{
			name: "valid directory without files",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			requiredPattern: "*.csv",
			wantErr:         false, // No files is not an error
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/path"
			},
			requiredPattern: "",
			wantErr:         true,
			errorContains:   "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "detections.csv")
				require.NoError(t, os.WriteFile(file, []byte("object_id\n"), 0644))
				return file
			},
			requiredPattern: "",
			wantErr:         true,
			errorContains:   "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateInputDirectory(dir, tt.requiredPattern)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
	}{
		{
			name: "existing directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "non-existent directory (should be created)",
			setupFunc: func(t *testing.T) string {
				base := t.TempDir()
				return filepath.Join(base, "outputs", "nested")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateOutputDirectory(dir)
			assert.NoError(t, err)

			info, err := os.Stat(dir)
			assert.NoError(t, err)
			assert.True(t, info.IsDir())

			// The write probe must not survive the call.
			_, err = os.Stat(filepath.Join(dir, ".write_test"))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestFileValidator_ValidateFile(t *testing.T) {
	validator := NewFileValidator(slog.Default())

	t.Run("readable file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "injections.csv")
		require.NoError(t, os.WriteFile(path, []byte("injection_id\n"), 0644))

		assert.NoError(t, validator.ValidateFile(path))
	})

	t.Run("missing file", func(t *testing.T) {
		err := validator.ValidateFile(filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory instead of file", func(t *testing.T) {
		err := validator.ValidateFile(t.TempDir())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestFileValidator_ValidateWorkbookFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid workbook (.xlsx)",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "survey_export.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("stub"), 0644))
				return file
			},
			wantErr: false,
		},
		{
			name: "valid workbook (.xls)",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "survey_export.xls")
				require.NoError(t, os.WriteFile(file, []byte("stub"), 0644))
				return file
			},
			wantErr: false,
		},
		{
			name: "temporary lock file",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "~$survey_export.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("stub"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "temporary",
		},
		{
			name: "non-workbook file",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "detections.csv")
				require.NoError(t, os.WriteFile(file, []byte("stub"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "not an Excel workbook",
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/survey.xlsx"
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			file := tt.setupFunc(t)

			err := validator.ValidateWorkbookFile(file)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	validator := NewFileValidator(slog.Default())

	t.Run("valid csv", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "object_meta.csv")
		require.NoError(t, os.WriteFile(path, []byte("object_id\n"), 0644))

		assert.NoError(t, validator.ValidateCSVFile(path))
	})

	t.Run("wrong extension", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "object_meta.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

		err := validator.ValidateCSVFile(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a CSV file")
	})
}
