package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcpipe/internal/config"
	apperrors "lcpipe/internal/errors"
	"lcpipe/pkg/contracts/domain"
)

func TestDatasetMetadata_NotYetProduced(t *testing.T) {
	paths := config.PathsForDataDir(t.TempDir())
	handler := NewDatasetHandler(paths, testLogger(), apperrors.NewErrorHandler(testLogger(), false))

	rec := httptest.NewRecorder()
	handler.Metadata(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/metadata", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDatasetMetadata_ServesWrittenFile(t *testing.T) {
	paths := config.PathsForDataDir(t.TempDir())
	require.NoError(t, os.MkdirAll(paths.OutputsDir, 0755))

	meta := domain.NewDatasetMetadata(3, 5, 0.2)
	data, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(paths.MetadataJSON, data, 0644))

	handler := NewDatasetHandler(paths, testLogger(), apperrors.NewErrorHandler(testLogger(), false))

	rec := httptest.NewRecorder()
	handler.Metadata(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/metadata", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.DatasetMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *meta, got)
}

func TestDatasetMetadata_CorruptFile(t *testing.T) {
	paths := config.PathsForDataDir(t.TempDir())
	require.NoError(t, os.MkdirAll(paths.OutputsDir, 0755))
	require.NoError(t, os.WriteFile(paths.MetadataJSON, []byte("{broken"), 0644))

	handler := NewDatasetHandler(paths, testLogger(), apperrors.NewErrorHandler(testLogger(), false))

	rec := httptest.NewRecorder()
	handler.Metadata(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/metadata", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
