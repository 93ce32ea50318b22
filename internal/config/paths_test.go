package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsForDataDir(t *testing.T) {
	paths := PathsForDataDir("/srv/lcpipe/data")

	assert.Equal(t, "/srv/lcpipe/data", paths.DataDir)
	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "outputs"), paths.OutputsDir)

	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "detections.csv"), paths.DetectionsCSV)
	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "injections.csv"), paths.InjectionsCSV)
	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "object_meta.csv"), paths.ObjectMetaCSV)
	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "manifest.json"), paths.ManifestJSON)

	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "outputs", "time_series_matrix.csv"), paths.TimeSeriesMatrixCSV)
	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "outputs", "anomaly_labels.csv"), paths.AnomalyLabelsCSV)
	assert.Equal(t, filepath.Join("/srv/lcpipe/data", "outputs", "data_metadata.json"), paths.MetadataJSON)
}

func TestPaths_WithOutputsDir(t *testing.T) {
	paths := PathsForDataDir("/data")
	custom := paths.WithOutputsDir("/elsewhere/out")

	assert.Equal(t, "/elsewhere/out", custom.OutputsDir)
	assert.Equal(t, filepath.Join("/elsewhere/out", "time_series_matrix.csv"), custom.TimeSeriesMatrixCSV)
	assert.Equal(t, filepath.Join("/elsewhere/out", "anomaly_labels.csv"), custom.AnomalyLabelsCSV)
	assert.Equal(t, filepath.Join("/elsewhere/out", "data_metadata.json"), custom.MetadataJSON)

	// Original untouched
	assert.Equal(t, filepath.Join("/data", "outputs"), paths.OutputsDir)
	// Inputs unchanged on the copy
	assert.Equal(t, filepath.Join("/data", "detections.csv"), custom.DetectionsCSV)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := PathsForDataDir(filepath.Join(base, "data"))
	paths.LogsDir = filepath.Join(base, "logs")

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.OutputsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "directory %s should exist", dir)
		assert.True(t, info.IsDir())
	}
}

func TestPaths_InputFiles(t *testing.T) {
	paths := PathsForDataDir("/data")
	files := paths.InputFiles()

	require.Len(t, files, 3)
	assert.Equal(t, paths.DetectionsCSV, files[DetectionsFileName])
	assert.Equal(t, paths.InjectionsCSV, files[InjectionsFileName])
	assert.Equal(t, paths.ObjectMetaCSV, files[ObjectMetaFileName])
}

func TestGetPaths_ExecutableRelative(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, DefaultDataDir), paths.DataDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, DefaultLogsDir), paths.LogsDir)
	assert.True(t, filepath.IsAbs(paths.DetectionsCSV))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "detections.csv")

	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("object_id\n"), 0644))
	assert.True(t, FileExists(path))
}
