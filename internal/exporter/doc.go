// Package exporter writes the pipeline-ready output files.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// MatrixExporter: Renders object×epoch matrices into the on-disk layout
// downstream pipelines expect (object_id index column, epoch_day header)
// and writes the dataset metadata summary JSON.
//
// Example usage:
//
//	// Create a matrix exporter
//	matrixExporter := exporter.NewMatrixExporter(paths)
//
//	// Export the filled time-series matrix
//	err := matrixExporter.ExportTimeSeriesMatrix(matrix, paths.TimeSeriesMatrixCSV)
//
//	// Export the aligned label matrix
//	err = matrixExporter.ExportLabelMatrix(labels, paths.AnomalyLabelsCSV)
//
//	// Write the metadata summary
//	err = matrixExporter.ExportMetadata(meta, paths.MetadataJSON)
package exporter
