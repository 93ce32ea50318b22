// Package ingest converts an uploaded survey workbook into the canonical
// dataset directory consumed by validation and transformation.
//
// A workbook carries up to three sheets (Detections, Injections,
// ObjectMeta; names matched case-insensitively). Each sheet becomes one
// CSV file under the target data directory, and a manifest.json with
// per-file BLAKE2b-256 digests, byte sizes, and row counts is written
// alongside so downstream consumers can detect modified inputs.
//
// Usage:
//
//	ingestor := ingest.NewIngestor(logger, metrics)
//	manifest, err := ingestor.Ingest(ctx, "survey_export.xlsx", "data", false)
package ingest
