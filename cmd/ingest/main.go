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
	"lcpipe/internal/ingest"
	"lcpipe/internal/validation"
)

func main() {
	workbook := flag.String("in", "", "workbook (.xlsx) to ingest")
	dataDir := flag.String("out", "", "target data directory (defaults to the configured data directory)")
	force := flag.Bool("force", false, "overwrite an existing non-empty data directory")
	configFile := flag.String("config", "", "config file (defaults to the lcpipe.yaml lookup)")
	flag.Parse()

	if *workbook == "" {
		fmt.Fprintln(os.Stderr, "ingest: -in workbook path is required")
		flag.Usage()
		os.Exit(2)
	}

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

	logger = infrastructure.WithComponent(logger, "ingest")
	ctx := infrastructure.EnsureTraceID(context.Background())

	if *dataDir == "" {
		*dataDir = cfg.GetDataDir()
	}

	logger.InfoContext(ctx, "Starting workbook ingest",
		slog.String("workbook", *workbook),
		slog.String("data_dir", *dataDir),
		slog.Bool("force", *force))

	if err := preflight(validation.NewFileValidator(logger), *workbook, *dataDir); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Preflight failed")
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Ingesting %s...\n", *workbook)

	ingestor := ingest.NewIngestor(logger, nil)
	manifest, err := ingestor.Ingest(ctx, *workbook, *dataDir, *force)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Ingest failed")
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}

	printManifest(os.Stdout, manifest)

	logger.InfoContext(ctx, "Ingest finished", slog.Int("files", len(manifest.Files)))
	fmt.Println("Done.")
}

// preflight rejects non-workbook inputs and unusable data directories
// before the ingestor touches either.
func preflight(fv *validation.FileValidator, workbook, dataDir string) error {
	if err := fv.ValidateWorkbookFile(workbook); err != nil {
		return err
	}
	return fv.ValidateOutputDirectory(dataDir)
}

func printManifest(w io.Writer, manifest *ingest.Manifest) {
	for _, entry := range manifest.Files {
		fmt.Fprintf(w, "  %s: %d rows, %d bytes\n", entry.File, entry.Rows, entry.Bytes)
	}
}
