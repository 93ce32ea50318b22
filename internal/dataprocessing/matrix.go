package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"lcpipe/internal/dataset"
	apperrors "lcpipe/internal/errors"
	"lcpipe/pkg/contracts/domain"
)

// cellAgg accumulates observed values for one (object, epoch) cell.
type cellAgg struct {
	sum   float64
	max   float64
	count int
}

// BuildTimeSeriesMatrix pivots a detection table into an object×epoch
// matrix of mean magnitudes. Detections with a missing object_id or epoch
// key are dropped; magnitudes that are missing do not contribute to the
// mean. Rows and columns whose cells are all missing are dropped from the
// result, so epoch_day values that never carry an observed magnitude do
// not produce empty columns.
func BuildTimeSeriesMatrix(frame *dataset.Frame) (*domain.Matrix, error) {
	return pivot(frame, domain.ColMag, aggMean)
}

// BuildLabelMatrix pivots the is_injection flags of a detection table into
// a 0/1 matrix aligned to the given row and column keys (max aggregation,
// unobserved cells default to 0). A table without an is_injection column
// yields an all-zero matrix of the same shape.
func BuildLabelMatrix(frame *dataset.Frame, objectIDs []string, epochs []float64) (*domain.Matrix, error) {
	labels := zeroMatrix(objectIDs, epochs)

	if !frame.HasColumn(domain.ColIsInjection) {
		return labels, nil
	}

	pivoted, err := pivot(frame, domain.ColIsInjection, aggMax)
	if err != nil {
		return nil, err
	}

	// Reindex onto the time-series matrix keys: cells outside them are
	// discarded, cells they lack stay 0.
	rowIdx := make(map[string]int, len(pivoted.ObjectIDs))
	for i, id := range pivoted.ObjectIDs {
		rowIdx[id] = i
	}
	colIdx := make(map[float64]int, len(pivoted.Epochs))
	for j, epoch := range pivoted.Epochs {
		colIdx[epoch] = j
	}

	for i, id := range objectIDs {
		si, ok := rowIdx[id]
		if !ok {
			continue
		}
		for j, epoch := range epochs {
			sj, ok := colIdx[epoch]
			if !ok {
				continue
			}
			if v := pivoted.Cells[si][sj]; !math.IsNaN(v) {
				labels.Cells[i][j] = v
			}
		}
	}

	return labels, nil
}

type aggFunc int

const (
	aggMean aggFunc = iota
	aggMax
)

// pivot groups a detection table by (object_id, epoch_day) and aggregates
// the named value column into a dense matrix.
func pivot(frame *dataset.Frame, valueColumn string, agg aggFunc) (*domain.Matrix, error) {
	objectIDs := frame.StringColumn(domain.ColObjectID)
	if objectIDs == nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s: column %q not found", frame.Name(), domain.ColObjectID), nil)
	}

	epochs, err := frame.FloatColumn(domain.ColEpochDay)
	if err != nil {
		return nil, err
	}

	values, err := frame.FloatColumn(valueColumn)
	if err != nil {
		return nil, err
	}

	cells := make(map[string]map[float64]*cellAgg)
	epochSet := make(map[float64]bool)

	for i := range objectIDs {
		id := objectIDs[i]
		epoch := epochs[i]
		if id == "" || math.IsNaN(epoch) {
			// A missing pivot key drops the detection from the grid.
			continue
		}

		if cells[id] == nil {
			cells[id] = make(map[float64]*cellAgg)
		}
		epochSet[epoch] = true

		value := values[i]
		if math.IsNaN(value) {
			// Keep the keys alive but record no observation.
			if cells[id][epoch] == nil {
				cells[id][epoch] = &cellAgg{}
			}
			continue
		}

		a := cells[id][epoch]
		if a == nil {
			a = &cellAgg{}
			cells[id][epoch] = a
		}
		a.sum += value
		if a.count == 0 || value > a.max {
			a.max = value
		}
		a.count++
	}

	rowKeys := make([]string, 0, len(cells))
	for id := range cells {
		rowKeys = append(rowKeys, id)
	}
	sort.Strings(rowKeys)

	colKeys := make([]float64, 0, len(epochSet))
	for epoch := range epochSet {
		colKeys = append(colKeys, epoch)
	}
	sort.Float64s(colKeys)

	matrix := &domain.Matrix{
		ObjectIDs: rowKeys,
		Epochs:    colKeys,
		Cells:     make([][]float64, len(rowKeys)),
	}

	for i, id := range rowKeys {
		row := make([]float64, len(colKeys))
		for j, epoch := range colKeys {
			a := cells[id][epoch]
			if a == nil || a.count == 0 {
				row[j] = math.NaN()
				continue
			}
			switch agg {
			case aggMax:
				row[j] = a.max
			default:
				row[j] = a.sum / float64(a.count)
			}
		}
		matrix.Cells[i] = row
	}

	dropEmpty(matrix)
	return matrix, nil
}

// zeroMatrix builds an all-zero matrix over the given keys.
func zeroMatrix(objectIDs []string, epochs []float64) *domain.Matrix {
	cells := make([][]float64, len(objectIDs))
	for i := range cells {
		cells[i] = make([]float64, len(epochs))
	}
	return &domain.Matrix{
		ObjectIDs: append([]string(nil), objectIDs...),
		Epochs:    append([]float64(nil), epochs...),
		Cells:     cells,
	}
}

// dropEmpty removes rows and columns whose cells are all missing.
func dropEmpty(m *domain.Matrix) {
	keptRows := make([]int, 0, len(m.Cells))
	for i, row := range m.Cells {
		for _, cell := range row {
			if !math.IsNaN(cell) {
				keptRows = append(keptRows, i)
				break
			}
		}
	}

	keptCols := make([]int, 0, len(m.Epochs))
	for j := range m.Epochs {
		for _, i := range keptRows {
			if !math.IsNaN(m.Cells[i][j]) {
				keptCols = append(keptCols, j)
				break
			}
		}
	}

	if len(keptRows) == len(m.Cells) && len(keptCols) == len(m.Epochs) {
		return
	}

	objectIDs := make([]string, len(keptRows))
	cells := make([][]float64, len(keptRows))
	for ni, i := range keptRows {
		objectIDs[ni] = m.ObjectIDs[i]
		row := make([]float64, len(keptCols))
		for nj, j := range keptCols {
			row[nj] = m.Cells[i][j]
		}
		cells[ni] = row
	}

	epochs := make([]float64, len(keptCols))
	for nj, j := range keptCols {
		epochs[nj] = m.Epochs[j]
	}

	m.ObjectIDs = objectIDs
	m.Epochs = epochs
	m.Cells = cells
}
