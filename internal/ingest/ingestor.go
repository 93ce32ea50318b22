package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lcpipe/internal/config"
	apperrors "lcpipe/internal/errors"
	"lcpipe/internal/exporter"
	"lcpipe/internal/infrastructure"
)

// Ingestor converts one uploaded workbook into the canonical dataset
// directory.
type Ingestor struct {
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewIngestor creates a workbook ingestor. A nil metrics handle disables
// instrumentation.
func NewIngestor(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		logger:  logger,
		metrics: metrics,
	}
}

// Ingest extracts workbookPath into dataDir and returns the written
// manifest. A non-empty dataDir is refused unless force is set.
func (s *Ingestor) Ingest(ctx context.Context, workbookPath, dataDir string, force bool) (*Manifest, error) {
	manifest, rowsWritten, err := s.ingest(ctx, workbookPath, dataDir, force)
	infrastructure.RecordIngestMetrics(ctx, s.metrics, rowsWritten, err)
	return manifest, err
}

func (s *Ingestor) ingest(ctx context.Context, workbookPath, dataDir string, force bool) (*Manifest, int, error) {
	paths := config.PathsForDataDir(dataDir)

	s.logger.InfoContext(ctx, "ingesting survey workbook",
		slog.String("workbook", workbookPath),
		slog.String("data_dir", paths.DataDir))

	if err := ensureDataDir(paths.DataDir, force); err != nil {
		return nil, 0, err
	}

	tables, err := extractWorkbook(workbookPath)
	if err != nil {
		return nil, 0, err
	}

	writer := exporter.NewCSVWriter(paths)
	targets := []struct {
		table *sheetTable
		path  string
	}{
		{tables.detections, paths.DetectionsCSV},
		{tables.injections, paths.InjectionsCSV},
		{tables.objectMeta, paths.ObjectMetaCSV},
	}

	outputs := make([]writtenFile, 0, len(targets))
	rowsWritten := 0
	for _, target := range targets {
		rows, err := writeTable(writer, target.path, target.table)
		if err != nil {
			return nil, rowsWritten, err
		}
		rowsWritten += rows
		outputs = append(outputs, writtenFile{
			name: filepath.Base(target.path),
			path: target.path,
			rows: rows,
		})
	}

	manifest, err := buildManifest(ctx, filepath.Base(workbookPath), outputs)
	if err != nil {
		return nil, rowsWritten, err
	}
	if err := manifest.Write(paths.ManifestJSON); err != nil {
		return nil, rowsWritten, err
	}

	s.logger.InfoContext(ctx, "workbook ingest complete",
		slog.Int("detections_rows", outputs[0].rows),
		slog.Int("injections_rows", outputs[1].rows),
		slog.Int("object_meta_rows", outputs[2].rows),
		slog.String("manifest", paths.ManifestJSON))

	return manifest, rowsWritten, nil
}

// ensureDataDir creates the data directory, refusing to reuse a non-empty
// one unless force is set.
func ensureDataDir(dir string, force bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				return apperrors.NewStorageError(
					fmt.Sprintf("failed to create data directory %s", dir), mkErr)
			}
			return nil
		}
		return apperrors.NewStorageError(
			fmt.Sprintf("failed to read data directory %s", dir), err)
	}

	if len(entries) > 0 && !force {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("data directory %s is not empty; re-run with -force to overwrite", dir))
	}
	return nil
}

// writeTable streams one extracted sheet to CSV and returns the number of
// data rows written.
func writeTable(writer *exporter.CSVWriter, path string, table *sheetTable) (int, error) {
	stream, err := writer.CreateStreamWriter(path, table.headers)
	if err != nil {
		return 0, err
	}

	for _, row := range table.rows {
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return 0, err
		}
	}

	if err := stream.Close(); err != nil {
		return 0, err
	}
	return len(table.rows), nil
}
