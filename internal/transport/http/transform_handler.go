package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"lcpipe/internal/config"
	apierrors "lcpipe/internal/errors"
	"lcpipe/internal/middleware"
	v1 "lcpipe/pkg/contracts/api/v1"
)

// TransformHandler exposes the pipeline-ready transform over HTTP.
type TransformHandler struct {
	service      TransformService
	dataDir      string
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTransformHandler creates a new transform handler. dataDir is the
// configured default used when the request leaves data_dir empty.
func NewTransformHandler(service TransformService, dataDir string, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TransformHandler {
	return &TransformHandler{
		service:      service,
		dataDir:      dataDir,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "transform")),
		errorHandler: errorHandler,
	}
}

// Routes sets up the transform routes
func (h *TransformHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Transform)
	return r
}

// Transform handles POST /api/transform. The body is optional; an empty
// body runs the transform with the configured directories.
func (h *TransformHandler) Transform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req v1.TransformRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		if err := h.validator.ValidateStruct(&req); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}

	dataDir := req.DataDir
	if dataDir == "" {
		dataDir = h.dataDir
	}

	result, err := h.service.CreatePipelineReadyData(ctx, dataDir, req.OutputDir)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	paths := config.PathsForDataDir(dataDir)
	if req.OutputDir != "" {
		paths = paths.WithOutputsDir(req.OutputDir)
	}

	h.logger.InfoContext(ctx, "transform completed",
		slog.Int("n_objects", result.Metadata.NObjects),
		slog.Int("n_timestamps", result.Metadata.NTimestamps))

	render.JSON(w, r, map[string]interface{}{
		"metadata": result.Metadata,
		"outputs": []string{
			paths.TimeSeriesMatrixCSV,
			paths.AnomalyLabelsCSV,
			paths.MetadataJSON,
		},
	})
}
