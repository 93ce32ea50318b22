package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "lcpipe/internal/errors"
)

// ValidationHandler exposes the dataset validator over HTTP.
type ValidationHandler struct {
	service      ValidationService
	dataDir      string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationHandler creates a new validation handler. dataDir is the
// configured default; requests cannot point the validator elsewhere.
func NewValidationHandler(service ValidationService, dataDir string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationHandler {
	return &ValidationHandler{
		service:      service,
		dataDir:      dataDir,
		logger:       logger.With(slog.String("handler", "validation")),
		errorHandler: errorHandler,
	}
}

// Routes sets up the validation routes
func (h *ValidationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Validate)
	return r
}

// Validate handles GET /api/validation. It runs the full check suite
// against the configured data directory. A failing check is a normal 200
// response; only tier-b failures (missing or unreadable dataset) render
// problems.
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overallPass, report, err := h.service.ValidateAll(ctx, h.dataDir)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "validation completed",
		slog.Bool("overall_pass", overallPass),
		slog.Int("checks", report.Len()))

	render.JSON(w, r, map[string]interface{}{
		"overall_pass": overallPass,
		"report":       report,
	})
}
