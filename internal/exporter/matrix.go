package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lcpipe/internal/config"
	"lcpipe/pkg/contracts/domain"
)

// MatrixExporter handles pipeline-ready output generation
type MatrixExporter struct {
	csvWriter *CSVWriter
}

// NewMatrixExporter creates a new matrix exporter
func NewMatrixExporter(paths *config.Paths) *MatrixExporter {
	return &MatrixExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportTimeSeriesMatrix writes the magnitude matrix with object_id as the
// index column and the epoch_day values as the header.
func (e *MatrixExporter) ExportTimeSeriesMatrix(m *domain.Matrix, outputPath string) error {
	records := make([][]string, m.Rows())
	for i, id := range m.ObjectIDs {
		row := make([]string, m.Cols()+1)
		row[0] = id
		for j, cell := range m.Cells[i] {
			row[j+1] = formatValue(cell)
		}
		records[i] = row
	}

	// No BOM so the file reloads cleanly in analysis tools
	if err := e.csvWriter.WriteCSV(outputPath, WriteOptions{
		Headers:   e.matrixHeaders(m),
		Records:   records,
		Append:    false,
		BOMPrefix: false,
	}); err != nil {
		return fmt.Errorf("failed to write time series matrix: %w", err)
	}
	return nil
}

// ExportLabelMatrix writes the anomaly label matrix in the same layout as
// the time-series matrix, with cells rendered as integers.
func (e *MatrixExporter) ExportLabelMatrix(m *domain.Matrix, outputPath string) error {
	records := make([][]string, m.Rows())
	for i, id := range m.ObjectIDs {
		row := make([]string, m.Cols()+1)
		row[0] = id
		for j, cell := range m.Cells[i] {
			row[j+1] = formatLabel(cell)
		}
		records[i] = row
	}

	if err := e.csvWriter.WriteCSV(outputPath, WriteOptions{
		Headers:   e.matrixHeaders(m),
		Records:   records,
		Append:    false,
		BOMPrefix: false,
	}); err != nil {
		return fmt.Errorf("failed to write label matrix: %w", err)
	}
	return nil
}

// ExportMetadata writes the dataset summary JSON with two-space indentation.
func (e *MatrixExporter) ExportMetadata(meta *domain.DatasetMetadata, outputPath string) error {
	slog.Info("Writing metadata JSON",
		slog.String("path", outputPath))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(meta); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	return nil
}

// matrixHeaders returns the CSV header row for a matrix
func (e *MatrixExporter) matrixHeaders(m *domain.Matrix) []string {
	headers := make([]string, m.Cols()+1)
	headers[0] = domain.ColObjectID
	for j, epoch := range m.Epochs {
		headers[j+1] = formatEpoch(epoch)
	}
	return headers
}
