package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"time"

	"lcpipe/internal/config"
	"lcpipe/internal/dataset"
	apperrors "lcpipe/internal/errors"
	"lcpipe/internal/exporter"
	"lcpipe/internal/infrastructure"
	"lcpipe/pkg/contracts/domain"
)

// Transformer reshapes a raw dataset directory into the pipeline-ready
// files: a filled time-series matrix, an aligned anomaly label matrix, and
// a metadata summary. It is the single place that owns this layout; the
// HTTP transform handler and the prepare CLI both delegate here.
type Transformer struct {
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// TransformResult carries the in-memory matrices and summary produced by a
// transform run, for callers that consume them directly instead of (or in
// addition to) the written files.
type TransformResult struct {
	TimeSeries *domain.Matrix
	Labels     *domain.Matrix
	Metadata   *domain.DatasetMetadata
	FillStats  FillStatistics
}

// NewTransformer creates a transformer. A nil metrics handle disables
// instrumentation.
func NewTransformer(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{
		logger:  logger,
		metrics: metrics,
	}
}

// CreatePipelineReadyData reads detections.csv from dataDir, builds and
// fills the time-series matrix, builds the label matrix aligned to it, and
// writes time_series_matrix.csv, anomaly_labels.csv, and data_metadata.json
// under outputDir. An empty outputDir defaults to <dataDir>/outputs.
//
// Read and build failures propagate to the caller; files already written
// before a failure are left in place.
func (t *Transformer) CreatePipelineReadyData(ctx context.Context, dataDir, outputDir string) (*TransformResult, error) {
	start := time.Now()

	result, err := t.createPipelineReadyData(ctx, dataDir, outputDir)

	var nObjects, nTimestamps int
	if result != nil {
		nObjects = result.Metadata.NObjects
		nTimestamps = result.Metadata.NTimestamps
	}
	infrastructure.RecordTransformMetrics(ctx, t.metrics, time.Since(start), nObjects, nTimestamps, err)

	return result, err
}

func (t *Transformer) createPipelineReadyData(ctx context.Context, dataDir, outputDir string) (*TransformResult, error) {
	paths := config.PathsForDataDir(dataDir)
	if outputDir != "" {
		paths = paths.WithOutputsDir(outputDir)
	}

	t.logger.InfoContext(ctx, "creating pipeline-ready data",
		slog.String("data_dir", dataDir),
		slog.String("output_dir", paths.OutputsDir))

	// The output directory exists before any input is read, so even an
	// aborted run leaves a place for later attempts to write into.
	if err := os.MkdirAll(paths.OutputsDir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create output directory", err)
	}

	// Only the detections table feeds the transform; the other dataset
	// files are not read here.
	detections, err := dataset.ReadCSVFile(paths.DetectionsCSV)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to load detections",
			slog.String("path", paths.DetectionsCSV),
			slog.String("error", err.Error()))
		return nil, err
	}
	infrastructure.RecordDatasetRowsLoaded(ctx, t.metrics, "detections", detections.Len())

	ts, err := BuildTimeSeriesMatrix(detections)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to build time series matrix",
			slog.String("error", err.Error()))
		return nil, err
	}

	fillStats := FillMissingValues(ts)

	// Outputs are written as they become ready; a later failure leaves the
	// earlier files in place.
	matrixExporter := exporter.NewMatrixExporter(paths)
	if err := matrixExporter.ExportTimeSeriesMatrix(ts, paths.TimeSeriesMatrixCSV); err != nil {
		return nil, err
	}

	labels, err := BuildLabelMatrix(detections, ts.ObjectIDs, ts.Epochs)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to build label matrix",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := matrixExporter.ExportLabelMatrix(labels, paths.AnomalyLabelsCSV); err != nil {
		return nil, err
	}

	metadata := domain.NewDatasetMetadata(ts.Rows(), ts.Cols(), labels.Mean())
	if err := matrixExporter.ExportMetadata(metadata, paths.MetadataJSON); err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "pipeline-ready data created",
		slog.Int("n_objects", metadata.NObjects),
		slog.Int("n_timestamps", metadata.NTimestamps),
		slog.Float64("anomaly_rate", metadata.AnomalyRate),
		slog.Int("forward_filled", fillStats.ForwardFilled),
		slog.Int("backward_filled", fillStats.BackwardFilled))

	return &TransformResult{
		TimeSeries: ts,
		Labels:     labels,
		Metadata:   metadata,
		FillStats:  fillStats,
	}, nil
}
