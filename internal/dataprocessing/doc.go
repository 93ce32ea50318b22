// Package dataprocessing turns long-format detection tables into the dense
// matrices the anomaly-detection pipeline trains on.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Matrix construction: pivots detections into an object×epoch grid
// 2. Fill: row-wise forward/backward fill of missing observations
// 3. Transformer: orchestrates load → pivot → fill → export
//
// # Usage
//
// Pivot detections into a magnitude matrix:
//
//	matrix, err := dataprocessing.BuildTimeSeriesMatrix(frame)
//	if err != nil {
//	    // the table could not be pivoted (missing or malformed key columns)
//	}
//
// Fill gaps along each object's time series:
//
//	dataprocessing.ForwardFillRows(matrix)
//	dataprocessing.BackwardFillRows(matrix)
//
// Produce the pipeline-ready files:
//
//	transformer := dataprocessing.NewTransformer(logger, nil)
//	metadata, err := transformer.CreatePipelineReadyData(ctx, dataDir, outputDir)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	CSV tables → Frame → Matrix (mean mag) → ffill/bfill → exporter → matrix/label/metadata files
//
// # Error Handling
//
// Matrix construction errors name the offending table, column, and row.
// Transformer errors distinguish pivot failures (reported, recoverable)
// from I/O failures (returned to the caller).
package dataprocessing
