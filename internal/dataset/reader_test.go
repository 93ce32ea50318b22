package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lcpipe/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSVFile(t *testing.T) {
	t.Run("basic file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "detections.csv",
			"object_id,epoch_day,mag\nOBJ001,1.0,18.2\nOBJ002,2.0,19.5\n")

		frame, err := ReadCSVFile(path)
		require.NoError(t, err)

		assert.Equal(t, "detections", frame.Name())
		assert.Equal(t, []string{"object_id", "epoch_day", "mag"}, frame.Columns())
		assert.Equal(t, 2, frame.Len())
		assert.Equal(t, "OBJ002", frame.Cell(1, "object_id"))
	})

	t.Run("strips UTF-8 BOM from header", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "detections.csv",
			"\uFEFFobject_id,mag\nOBJ001,18.2\n")

		frame, err := ReadCSVFile(path)
		require.NoError(t, err)

		assert.True(t, frame.HasColumn("object_id"))
		assert.Equal(t, "OBJ001", frame.Cell(0, "object_id"))
	})

	t.Run("pads short rows and truncates long rows", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "detections.csv",
			"object_id,epoch_day,mag\nOBJ001,1.0\nOBJ002,2.0,19.5,extra\n")

		frame, err := ReadCSVFile(path)
		require.NoError(t, err)
		require.Equal(t, 2, frame.Len())

		// Short row: tail cell is missing
		assert.Equal(t, "", frame.Cell(0, "mag"))
		assert.True(t, IsMissing(frame.Cell(0, "mag")))

		// Long row: extra cell dropped
		assert.Equal(t, "19.5", frame.Cell(1, "mag"))
	})

	t.Run("trims header whitespace", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "detections.csv",
			"object_id, mag \nOBJ001,18.2\n")

		frame, err := ReadCSVFile(path)
		require.NoError(t, err)
		assert.True(t, frame.HasColumn("mag"))
	})

	t.Run("missing file is a not-found error", func(t *testing.T) {
		_, err := ReadCSVFile(filepath.Join(t.TempDir(), "detections.csv"))
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
		assert.Contains(t, err.Error(), "detections.csv")
	})

	t.Run("empty file is a parsing error", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "detections.csv", "")

		_, err := ReadCSVFile(path)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	})

	t.Run("malformed quoting is a parsing error", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "detections.csv",
			"object_id,mag\n\"OBJ001,18.2\n")

		_, err := ReadCSVFile(path)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
		assert.Contains(t, err.Error(), "detections.csv")
	})
}

func TestLoadDataset(t *testing.T) {
	writeDataset := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		writeFile(t, dir, "detections.csv",
			"object_id,epoch_day,mag,flux,mag_err,flux_err\nOBJ001,1.0,18.2,120.5,0.02,1.1\n")
		writeFile(t, dir, "injections.csv",
			"object_id,injection_id,is_injection\nOBJ001,1,1\n")
		writeFile(t, dir, "object_meta.csv",
			"object_id,field\nOBJ001,ecliptic\n")
		return dir
	}

	t.Run("loads all three tables", func(t *testing.T) {
		dir := writeDataset(t)

		ds, err := LoadDataset(dir)
		require.NoError(t, err)

		assert.Equal(t, 1, ds.Detections.Len())
		assert.Equal(t, 1, ds.Injections.Len())
		assert.Equal(t, 1, ds.ObjectMeta.Len())
		assert.Equal(t, "detections", ds.Detections.Name())
		assert.Equal(t, "injections", ds.Injections.Name())
		assert.Equal(t, "object_meta", ds.ObjectMeta.Name())
	})

	t.Run("missing table names the file", func(t *testing.T) {
		dir := writeDataset(t)
		require.NoError(t, os.Remove(filepath.Join(dir, "injections.csv")))

		_, err := LoadDataset(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "injections.csv")

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
	})
}
