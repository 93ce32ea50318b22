package http

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/render"

	"lcpipe/internal/config"
	"lcpipe/pkg/contracts"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	paths     *config.Paths
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(paths *config.Paths, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		paths:     paths,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   contracts.Version,
		"uptime":    time.Since(h.startTime).String(),
	})
}

// ReadinessCheck handles GET /api/health/ready. The server is ready when
// the configured data directory exists; the response also lists which of
// the fixed input files are present so a caller can see what validation
// will find.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	dataDirExists := config.FileExists(h.paths.DataDir)

	inputs := make(map[string]bool, 3)
	for name, path := range h.paths.InputFiles() {
		inputs[name] = config.FileExists(path)
	}

	status := "ready"
	code := http.StatusOK
	if !dataDirExists {
		status = "not_ready"
		code = http.StatusServiceUnavailable
		h.logger.WarnContext(r.Context(), "readiness check failed: data directory missing",
			slog.String("data_dir", h.paths.DataDir))
	}

	render.Status(r, code)
	render.JSON(w, r, map[string]interface{}{
		"status":          status,
		"timestamp":       time.Now().UTC(),
		"data_dir":        h.paths.DataDir,
		"data_dir_exists": dataDirExists,
		"input_files":     inputs,
	})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	info := contracts.GetVersionInfo()
	render.JSON(w, r, map[string]interface{}{
		"version":             info.Version,
		"data_format_version": contracts.DataFormatVersion,
		"build_time":          info.BuildTime,
		"git_commit":          info.GitCommit,
		"go_version":          runtime.Version(),
		"os":                  runtime.GOOS,
		"arch":                runtime.GOARCH,
	})
}
