package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lcpipe/internal/config"
	"lcpipe/internal/dataprocessing"
	"lcpipe/internal/infrastructure"
)

func main() {
	dataDir := flag.String("dir", "", "dataset directory (defaults to the configured data directory)")
	outDir := flag.String("out", "", "output directory (defaults to <data-dir>/outputs)")
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

	logger = infrastructure.WithComponent(logger, "prepare")
	ctx := infrastructure.EnsureTraceID(context.Background())

	if *dataDir == "" {
		*dataDir = cfg.GetDataDir()
	}

	logger.InfoContext(ctx, "Starting dataset preparation",
		slog.String("data_dir", *dataDir),
		slog.String("output_dir", *outDir))

	fmt.Println("Preparing pipeline-ready dataset...")

	transformer := dataprocessing.NewTransformer(logger, nil)
	result, err := transformer.CreatePipelineReadyData(ctx, *dataDir, *outDir)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Preparation failed")
		fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
		os.Exit(1)
	}

	paths := config.PathsForDataDir(*dataDir)
	if *outDir != "" {
		paths = paths.WithOutputsDir(*outDir)
	}
	printSummary(os.Stdout, paths, result)

	logger.InfoContext(ctx, "Preparation finished",
		slog.Int("n_objects", result.Metadata.NObjects),
		slog.Int("n_timestamps", result.Metadata.NTimestamps),
		slog.Float64("anomaly_rate", result.Metadata.AnomalyRate),
		slog.Int("cells_filled", result.FillStats.TotalFilled()))
	fmt.Println("Done.")
}

func printSummary(w io.Writer, paths *config.Paths, result *dataprocessing.TransformResult) {
	fmt.Fprintf(w, "Wrote %s\n", paths.TimeSeriesMatrixCSV)
	fmt.Fprintf(w, "Wrote %s\n", paths.AnomalyLabelsCSV)
	fmt.Fprintf(w, "Wrote %s\n", paths.MetadataJSON)

	meta := result.Metadata
	fmt.Fprintf(w, "Objects: %d, timestamps: %d, anomaly rate: %.4f\n",
		meta.NObjects, meta.NTimestamps, meta.AnomalyRate)
	fmt.Fprintf(w, "Filled cells: %d forward, %d backward\n",
		result.FillStats.ForwardFilled, result.FillStats.BackwardFilled)
}
