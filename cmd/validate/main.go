package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lcpipe/internal/config"
	"lcpipe/internal/infrastructure"
	"lcpipe/internal/validation"
)

func main() {
	dataDir := flag.String("dir", "", "dataset directory (defaults to the configured data directory)")
	configFile := flag.String("config", "", "config file (defaults to the lcpipe.yaml lookup)")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger = infrastructure.WithComponent(logger, "validate")
	ctx := infrastructure.EnsureTraceID(context.Background())

	if *dataDir == "" {
		*dataDir = cfg.GetDataDir()
	}

	logger.InfoContext(ctx, "Starting dataset validation",
		slog.String("data_dir", *dataDir))

	fmt.Println("Running dataset validation...")

	validator := validation.NewDatasetValidator(logger, nil)
	pass, report, err := validator.ValidateAll(ctx, *dataDir)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Validation could not run")
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}

	printReport(os.Stdout, report, pass)

	logger.InfoContext(ctx, "Validation finished", slog.Bool("overall_pass", pass))
	fmt.Println("Done.")
}

// printReport writes each recorded check followed by the overall verdict.
// Failing checks do not change the exit code; the report itself is the
// result of a successful run.
func printReport(w io.Writer, report *validation.Report, pass bool) {
	for _, entry := range report.Entries() {
		fmt.Fprintf(w, "  %s: %v\n", entry.Key, entry.Value)
	}
	fmt.Fprintf(w, "Ready for modeling: %v\n", pass)
}
