package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"lcpipe/internal/config"
	apierrors "lcpipe/internal/errors"
	"lcpipe/pkg/contracts/domain"
)

// DatasetHandler serves metadata about the most recent transform output.
type DatasetHandler struct {
	paths        *config.Paths
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(paths *config.Paths, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		paths:        paths,
		logger:       logger.With(slog.String("handler", "dataset")),
		errorHandler: errorHandler,
	}
}

// Routes sets up the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/metadata", h.Metadata)
	return r
}

// Metadata handles GET /api/dataset/metadata. It returns the last written
// data_metadata.json, or a 404 problem when no transform has produced one
// yet.
func (h *DatasetHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := os.ReadFile(h.paths.MetadataJSON)
	if err != nil {
		if os.IsNotExist(err) {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("dataset metadata"))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("read metadata", err))
		return
	}

	var meta domain.DatasetMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusInternalServerError,
			"METADATA_CORRUPT",
			"Stored metadata could not be parsed",
			err.Error(),
		))
		return
	}

	h.logger.DebugContext(ctx, "served dataset metadata",
		slog.Int("n_objects", meta.NObjects),
		slog.Int("n_timestamps", meta.NTimestamps))

	render.JSON(w, r, meta)
}
