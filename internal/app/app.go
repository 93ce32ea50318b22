package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"lcpipe/internal/config"
	"lcpipe/internal/dataprocessing"
	"lcpipe/internal/errors"
	"lcpipe/internal/infrastructure"
	customMiddleware "lcpipe/internal/middleware"
	handlers "lcpipe/internal/transport/http"
	"lcpipe/internal/validation"
	"lcpipe/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics

	validator     *validation.DatasetValidator
	transformer   *dataprocessing.Transformer
	systemMetrics *infrastructure.SystemMetricsCollector
}

// NewApplication creates a new application instance with dependency
// injection. An empty configFile uses the default config lookup.
func NewApplication(configFile string) (*Application, error) {
	// Load configuration
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize the single infrastructure logger
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	// Resolve and prepare all paths before anything touches the filesystem
	paths := cfg.ResolvedPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution()

	// Initialize OpenTelemetry
	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	systemMetrics, err := infrastructure.NewSystemMetricsCollector(otelProviders.Meter, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics collector: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,

		validator:     validation.NewDatasetValidator(logger, metrics),
		transformer:   dataprocessing.NewTransformer(logger, metrics),
		systemMetrics: systemMetrics,
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter builds the chi router with the full middleware chain and the
// status API routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer →
	// SecurityHeaders → CORS → rate limit → timeout (per route group).
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.PipelineMetricsMiddleware(a.Metrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus metrics endpoint stays outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
		validationMW := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)

		// Read-style endpoints with the standard timeout
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.Paths, a.Logger)
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)

			validationHandler := handlers.NewValidationHandler(a.validator, a.Paths.DataDir, a.Logger, errorHandler)
			r.Mount("/validation", validationHandler.Routes())

			datasetHandler := handlers.NewDatasetHandler(a.Paths, a.Logger, errorHandler)
			r.Mount("/dataset", datasetHandler.Routes())
		})

		// Transform gets its own, longer timeout
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.TransformTimeout, a.Logger))
			r.Use(validationMW.ValidateRequest)

			transformHandler := handlers.NewTransformHandler(a.transformer, a.Paths.DataDir, validationMW, a.Logger, errorHandler)
			r.Mount("/transform", transformHandler.Routes())
		})
	})
}

// getCORSConfig builds the CORS configuration from the loaded config
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer builds the HTTP server from configuration
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server and the startup health check
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	if a.systemMetrics != nil {
		go a.systemMetrics.Start(ctx)
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			// Signal shutdown through context instead of os.Exit
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.systemMetrics != nil {
		a.systemMetrics.Stop()
	}

	// Shutdown OpenTelemetry providers after the server stops serving
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("log file close error: %w", err)
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the data layout the API will serve.
// Problems are reported as warnings; the server still starts so the ingest
// and transform endpoints can create what is missing.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	start := time.Now()
	var warnings []string

	if !config.FileExists(a.Paths.DataDir) {
		warnings = append(warnings, fmt.Sprintf("data directory missing: %s", a.Paths.DataDir))
	}
	for name, path := range a.Paths.InputFiles() {
		if !config.FileExists(path) {
			warnings = append(warnings, fmt.Sprintf("input file missing: %s", name))
		}
	}

	a.Logger.InfoContext(ctx, "Startup health check completed",
		slog.Int("warnings", len(warnings)),
		slog.String("data_dir", a.Paths.DataDir),
		slog.Duration("elapsed", time.Since(start)))

	if len(warnings) > 0 {
		return fmt.Errorf("startup warnings: %v", warnings)
	}
	return nil
}
