// Package api contains API contract definitions for the lcpipe status
// server. Version v1 represents the current stable API version.
package api

// TransformRequest represents a request to build the pipeline-ready
// matrices. Empty fields fall back to the configured directories. The
// directories are not checked here: the output directory is created on
// demand and a missing data directory surfaces as a not-found problem
// from the transformer.
type TransformRequest struct {
	DataDir   string `json:"data_dir,omitempty" validate:"omitempty"`
	OutputDir string `json:"output_dir,omitempty" validate:"omitempty"`
}
