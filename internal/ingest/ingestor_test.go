package ingest

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/blake2b"

	"lcpipe/internal/dataset"
	apperrors "lcpipe/internal/errors"
	"lcpipe/internal/validation"
)

type sheetFixture struct {
	name string
	rows [][]string
}

// writeWorkbook authors a temporary xlsx file. Empty cells are left unset
// so the fixture looks like a real sparse export.
func writeWorkbook(t *testing.T, sheets []sheetFixture) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range sheets {
		_, err := f.NewSheet(sheet.name)
		require.NoError(t, err)

		for rowIdx, row := range sheet.rows {
			for colIdx, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.name, cell, value))
			}
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "survey_export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// surveyWorkbook builds a small but fully populated workbook. Sheet names
// deliberately vary in case, headers carry spaces and mixed case, and one
// spreadsheet row is left blank.
func surveyWorkbook(t *testing.T) string {
	t.Helper()
	return writeWorkbook(t, []sheetFixture{
		{
			name: "Detections",
			rows: [][]string{
				{"Object ID", "Epoch Day", "Mag", "Mag Err", "Flux", "Flux Err", "Is Injection", "Injection ID"},
				{"OBJ001", "1", "18.2", "0.02", "1200.5", "12.1", "0", ""},
				{"OBJ001", "2", "17.9", "0.02", "1405.7", "13.0", "1", "INJ001"},
				{},
				{"OBJ002", "1", "19.1", "0.03", "640.2", "8.2", "0", ""},
				{"OBJ002", "2", "19.0", "0.03", "655.8", "8.4", "0", ""},
			},
		},
		{
			name: "injections",
			rows: [][]string{
				{"Injection ID", "Object ID", "Peak Mag", "Model"},
				{"INJ001", "OBJ001", "17.9", "gaussian"},
			},
		},
		{
			name: "OBJECTMETA",
			rows: [][]string{
				{"Object ID", "RA", "Dec", "Field"},
				{"OBJ001", "150.1", "2.2", "F01"},
				{"OBJ002", "150.3", "2.4", "F01"},
			},
		},
	})
}

func TestNewIngestor(t *testing.T) {
	ing := NewIngestor(nil, nil)
	require.NotNil(t, ing)
	assert.NotNil(t, ing.logger)
}

func TestIngestor_Ingest(t *testing.T) {
	workbook := surveyWorkbook(t)
	dataDir := filepath.Join(t.TempDir(), "data")

	ing := NewIngestor(slog.Default(), nil)
	manifest, err := ing.Ingest(context.Background(), workbook, dataDir, false)
	require.NoError(t, err)
	require.NotNil(t, manifest)

	assert.Equal(t, "survey_export.xlsx", manifest.Source)
	assert.WithinDuration(t, time.Now(), manifest.CreatedAt, time.Minute)

	require.Len(t, manifest.Files, 3)
	assert.Equal(t, "detections.csv", manifest.Files[0].File)
	assert.Equal(t, 4, manifest.Files[0].Rows, "the blank spreadsheet row is dropped")
	assert.Equal(t, "injections.csv", manifest.Files[1].File)
	assert.Equal(t, 1, manifest.Files[1].Rows)
	assert.Equal(t, "object_meta.csv", manifest.Files[2].File)
	assert.Equal(t, 2, manifest.Files[2].Rows)

	// Each digest must match a recomputation over the file on disk.
	for _, entry := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(dataDir, entry.File))
		require.NoError(t, err)

		sum := blake2b.Sum256(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), entry.Blake2b256, entry.File)
		assert.Equal(t, int64(len(data)), entry.Bytes, entry.File)
	}

	// The written files load back through the dataset reader with
	// normalized canonical headers.
	ds, err := dataset.LoadDataset(dataDir)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"object_id", "epoch_day", "mag", "mag_err", "flux", "flux_err", "is_injection", "injection_id"},
		ds.Detections.Columns())
	assert.Equal(t, 4, ds.Detections.Len())
	assert.Equal(t, "INJ001", ds.Detections.Cell(1, "injection_id"))
	assert.Equal(t, 1, ds.Injections.Len())
	assert.Equal(t, 2, ds.ObjectMeta.Len())

	// manifest.json sits next to the CSVs and reloads cleanly.
	loaded, err := ReadManifest(filepath.Join(dataDir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, manifest.Files, loaded.Files)
}

func TestIngestor_Ingest_ValidatesCleanly(t *testing.T) {
	workbook := surveyWorkbook(t)
	dataDir := filepath.Join(t.TempDir(), "data")

	ing := NewIngestor(slog.Default(), nil)
	_, err := ing.Ingest(context.Background(), workbook, dataDir, false)
	require.NoError(t, err)

	v := validation.NewDatasetValidator(slog.Default(), nil)
	pass, report, err := v.ValidateAll(context.Background(), dataDir)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, pass, "a freshly ingested workbook must validate")
}

func TestIngestor_Ingest_RefusesNonEmptyDataDir(t *testing.T) {
	workbook := surveyWorkbook(t)
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "stale.csv"), []byte("x\n"), 0644))

	ing := NewIngestor(slog.Default(), nil)

	_, err := ing.Ingest(context.Background(), workbook, dataDir, false)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Message, "not empty")

	// force overrides the guard.
	manifest, err := ing.Ingest(context.Background(), workbook, dataDir, true)
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.FileExists(t, filepath.Join(dataDir, "detections.csv"))
}

func TestIngestor_Ingest_MissingDetectionsSheet(t *testing.T) {
	workbook := writeWorkbook(t, []sheetFixture{
		{
			name: "Injections",
			rows: [][]string{
				{"Injection ID"},
				{"INJ001"},
			},
		},
	})
	dataDir := filepath.Join(t.TempDir(), "data")

	ing := NewIngestor(slog.Default(), nil)
	_, err := ing.Ingest(context.Background(), workbook, dataDir, false)

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Message, "Detections")
}

func TestIngestor_Ingest_OptionalSheetsDefaultEmpty(t *testing.T) {
	workbook := writeWorkbook(t, []sheetFixture{
		{
			name: "Detections",
			rows: [][]string{
				{"object_id", "epoch_day", "mag", "mag_err", "flux", "flux_err"},
				{"OBJ001", "1", "18.2", "0.02", "1200.5", "12.1"},
			},
		},
	})
	dataDir := filepath.Join(t.TempDir(), "data")

	ing := NewIngestor(slog.Default(), nil)
	manifest, err := ing.Ingest(context.Background(), workbook, dataDir, false)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 3)
	assert.Equal(t, 0, manifest.Files[1].Rows)
	assert.Equal(t, 0, manifest.Files[2].Rows)

	injections, err := os.ReadFile(filepath.Join(dataDir, "injections.csv"))
	require.NoError(t, err)
	assert.Equal(t, "injection_id\n", string(injections))

	objectMeta, err := os.ReadFile(filepath.Join(dataDir, "object_meta.csv"))
	require.NoError(t, err)
	assert.Equal(t, "object_id\n", string(objectMeta))
}

func TestIngestor_Ingest_MissingRequiredColumn(t *testing.T) {
	workbook := writeWorkbook(t, []sheetFixture{
		{
			name: "Detections",
			rows: [][]string{
				{"object_id", "epoch_day", "mag", "mag_err", "flux"},
				{"OBJ001", "1", "18.2", "0.02", "1200.5"},
			},
		},
	})
	dataDir := filepath.Join(t.TempDir(), "data")

	ing := NewIngestor(slog.Default(), nil)
	_, err := ing.Ingest(context.Background(), workbook, dataDir, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flux_err")
}

func TestIngestor_Ingest_UnreadableWorkbook(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	ing := NewIngestor(slog.Default(), nil)
	_, err := ing.Ingest(context.Background(), "/non/existent/survey.xlsx", dataDir, false)

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestEnsureDataDir(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		require.NoError(t, ensureDataDir(dir, false))
		assert.DirExists(t, dir)
	})

	t.Run("accepts empty directory", func(t *testing.T) {
		assert.NoError(t, ensureDataDir(t.TempDir(), false))
	})

	t.Run("refuses non-empty directory without force", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0644))
		assert.Error(t, ensureDataDir(dir, false))
		assert.NoError(t, ensureDataDir(dir, true))
	})
}
