package validation

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"lcpipe/internal/dataprocessing"
	"lcpipe/internal/dataset"
	"lcpipe/internal/infrastructure"
	"lcpipe/pkg/contracts/domain"
)

// DatasetValidator runs the pre-pipeline consistency checks over a dataset
// directory. Five checks run in a fixed order; the first three gate the
// overall pass flag while label consistency and range sanity are recorded
// in the report without affecting it.
type DatasetValidator struct {
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewDatasetValidator creates a dataset validator. A nil metrics handle
// disables instrumentation.
func NewDatasetValidator(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *DatasetValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetValidator{
		logger:  logger,
		metrics: metrics,
	}
}

// ValidateAll loads the three dataset tables from dataDir and runs every
// check, returning the overall pass flag and the ordered report. A missing
// or unreadable input file, or a malformed numeric cell outside the guarded
// pivot step, aborts validation with an error instead of a report.
func (v *DatasetValidator) ValidateAll(ctx context.Context, dataDir string) (bool, *Report, error) {
	start := time.Now()
	pass, report, err := v.validateAll(ctx, dataDir)
	infrastructure.RecordValidationMetrics(ctx, v.metrics, time.Since(start), pass, err)
	return pass, report, err
}

func (v *DatasetValidator) validateAll(ctx context.Context, dataDir string) (bool, *Report, error) {
	v.logger.InfoContext(ctx, "running dataset validation",
		slog.String("data_dir", dataDir))

	ds, err := dataset.LoadDataset(dataDir)
	if err != nil {
		v.logger.ErrorContext(ctx, "failed to load dataset",
			slog.String("data_dir", dataDir),
			slog.String("error", err.Error()))
		return false, nil, err
	}

	report := NewReport()
	allValid := true

	if !v.checkColumns(ctx, ds.Detections, report) {
		allValid = false
	}
	if !v.checkCompleteness(ctx, ds.Detections, report) {
		allValid = false
	}
	if !v.checkPivot(ctx, ds.Detections, report) {
		allValid = false
	}

	// The last two checks are recorded but never clear the overall flag.
	v.checkLabelConsistency(ctx, ds, report)
	if err := v.checkRanges(ctx, ds.Detections, report); err != nil {
		v.logger.ErrorContext(ctx, "range check aborted",
			slog.String("error", err.Error()))
		return false, nil, err
	}

	v.logger.InfoContext(ctx, "dataset validation complete",
		slog.Bool("overall_pass", allValid),
		slog.Int("checks_recorded", report.Len()))

	return allValid, report, nil
}

// checkColumns verifies the detections table carries every required column.
func (v *DatasetValidator) checkColumns(ctx context.Context, detections *dataset.Frame, report *Report) bool {
	var missing []string
	for _, col := range domain.RequiredDetectionColumns {
		if !detections.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	ok := len(missing) == 0
	if !ok {
		v.logger.WarnContext(ctx, "detections table is missing required columns",
			slog.Any("missing_columns", missing))
	}

	report.Set(KeyColumnsOK, ok)
	infrastructure.RecordValidationCheck(ctx, v.metrics, KeyColumnsOK, ok)
	return ok
}

// checkCompleteness verifies no critical column has missing values. An
// absent critical column counts as fully missing.
func (v *DatasetValidator) checkCompleteness(ctx context.Context, detections *dataset.Frame, report *Report) bool {
	nanCount := 0
	for _, col := range domain.CriticalColumns {
		nanCount += detections.MissingCount(col)
	}

	ok := nanCount == 0
	if !ok {
		v.logger.WarnContext(ctx, "critical columns contain missing values",
			slog.Int("missing_cells", nanCount))
	}

	report.Set(KeyNoNaNs, ok)
	infrastructure.RecordValidationCheck(ctx, v.metrics, KeyNoNaNs, ok)
	return ok
}

// checkPivot attempts the object×epoch pivot. This is the one guarded
// step: a failed pivot becomes a failed check rather than an error, and
// shape and sparsity are only recorded on success.
func (v *DatasetValidator) checkPivot(ctx context.Context, detections *dataset.Frame, report *Report) bool {
	matrix, err := dataprocessing.BuildTimeSeriesMatrix(detections)
	if err != nil {
		v.logger.WarnContext(ctx, "time-series pivot failed",
			slog.String("error", err.Error()))
		report.Set(KeyMatrixOK, false)
		infrastructure.RecordValidationCheck(ctx, v.metrics, KeyMatrixOK, false)
		return false
	}

	report.Set(KeyMatrixOK, true)
	report.Set(KeyMatrixShape, Shape{Rows: matrix.Rows(), Cols: matrix.Cols()})
	report.Set(KeySparsity, matrix.Sparsity())
	infrastructure.RecordValidationCheck(ctx, v.metrics, KeyMatrixOK, true)
	return true
}

// checkLabelConsistency verifies every injection_id referenced by a flagged
// detection exists in the injections table.
func (v *DatasetValidator) checkLabelConsistency(ctx context.Context, ds *dataset.Dataset, report *Report) {
	flagged := flaggedInjectionIDs(ds.Detections)
	known := injectionIDSet(ds.Injections)

	unmatched := 0
	for id := range flagged {
		if !known[id] {
			unmatched++
		}
	}

	ok := unmatched == 0
	if !ok {
		v.logger.WarnContext(ctx, "flagged detections reference unknown injection ids",
			slog.Int("unmatched", unmatched),
			slog.Int("flagged", len(flagged)),
			slog.Int("known", len(known)))
	}

	report.Set(KeyLabelsMatch, ok)
	infrastructure.RecordValidationCheck(ctx, v.metrics, KeyLabelsMatch, ok)
}

// checkRanges counts magnitude and flux sanity violations. Malformed
// numeric cells here are not guarded and abort validation.
func (v *DatasetValidator) checkRanges(ctx context.Context, detections *dataset.Frame, report *Report) error {
	magOutliers, err := countOutliers(detections, domain.ColMag, func(value float64) bool {
		return value < domain.MagMin || value > domain.MagMax
	})
	if err != nil {
		return err
	}

	negativeFlux, err := countOutliers(detections, domain.ColFlux, func(value float64) bool {
		return value < 0
	})
	if err != nil {
		return err
	}

	ok := magOutliers == 0 && negativeFlux == 0
	if !ok {
		v.logger.WarnContext(ctx, "detections contain out-of-range values",
			slog.Int("mag_outliers", magOutliers),
			slog.Int("negative_flux", negativeFlux))
	}

	report.Set(KeyReasonableRanges, ok)
	infrastructure.RecordValidationCheck(ctx, v.metrics, KeyReasonableRanges, ok)
	return nil
}

// countOutliers counts non-missing values matching the predicate. An
// absent column contributes no outliers.
func countOutliers(frame *dataset.Frame, column string, outlier func(float64) bool) (int, error) {
	if !frame.HasColumn(column) {
		return 0, nil
	}

	values, err := frame.FloatColumn(column)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, value := range values {
		if math.IsNaN(value) {
			continue
		}
		if outlier(value) {
			count++
		}
	}
	return count, nil
}

// flaggedInjectionIDs returns the canonical injection ids referenced by
// detections with is_injection equal to 1. Rows with a missing id are
// dropped; a missing or non-numeric flag column selects no rows at all.
func flaggedInjectionIDs(detections *dataset.Frame) map[string]bool {
	flags, err := detections.FloatColumn(domain.ColIsInjection)
	if err != nil {
		return nil
	}

	ids := detections.StringColumn(domain.ColInjectionID)
	if ids == nil {
		return nil
	}
	idValues, idErr := detections.FloatColumn(domain.ColInjectionID)
	numeric := idErr == nil

	set := make(map[string]bool)
	for i, flag := range flags {
		if flag != 1 || dataset.IsMissing(ids[i]) {
			continue
		}
		if numeric {
			set[canonicalNumericID(idValues[i])] = true
		} else {
			set[canonicalStringID(ids[i])] = true
		}
	}
	return set
}

// injectionIDSet returns the canonical injection ids present in the
// injections table.
func injectionIDSet(injections *dataset.Frame) map[string]bool {
	ids := injections.StringColumn(domain.ColInjectionID)
	if ids == nil {
		return nil
	}
	idValues, err := injections.FloatColumn(domain.ColInjectionID)
	numeric := err == nil

	set := make(map[string]bool, len(ids))
	for i, id := range ids {
		if dataset.IsMissing(id) {
			continue
		}
		if numeric {
			set[canonicalNumericID(idValues[i])] = true
		} else {
			set[canonicalStringID(id)] = true
		}
	}
	return set
}

// Ids compare numerically only when their whole column parses as numbers,
// the way a dataframe would type the column; the two canonical kinds never
// match each other.
func canonicalNumericID(value float64) string {
	return "num:" + strconv.FormatFloat(value, 'g', -1, 64)
}

func canonicalStringID(raw string) string {
	return "str:" + raw
}
