package http

import (
	"context"

	"lcpipe/internal/dataprocessing"
	"lcpipe/internal/validation"
)

// ValidationService runs the dataset consistency checks.
// Implemented by *validation.DatasetValidator.
type ValidationService interface {
	ValidateAll(ctx context.Context, dataDir string) (bool, *validation.Report, error)
}

// TransformService builds the pipeline-ready matrices.
// Implemented by *dataprocessing.Transformer.
type TransformService interface {
	CreatePipelineReadyData(ctx context.Context, dataDir, outputDir string) (*dataprocessing.TransformResult, error)
}
