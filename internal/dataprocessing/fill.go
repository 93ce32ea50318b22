package dataprocessing

import (
	"math"

	"lcpipe/pkg/contracts/domain"
)

// FillStatistics reports how many cells each fill pass wrote.
type FillStatistics struct {
	ForwardFilled  int
	BackwardFilled int
}

// TotalFilled returns the total number of cells written by both passes.
func (s FillStatistics) TotalFilled() int {
	return s.ForwardFilled + s.BackwardFilled
}

// FillMissingValues imputes missing cells row by row: forward fill first,
// then backward fill for the leading gaps the forward pass cannot reach.
// A row with no observed value at all stays missing, though matrices built
// by BuildTimeSeriesMatrix never contain such rows.
func FillMissingValues(m *domain.Matrix) FillStatistics {
	return FillStatistics{
		ForwardFilled:  ForwardFillRows(m),
		BackwardFilled: BackwardFillRows(m),
	}
}

// ForwardFillRows replaces each missing cell with the nearest observed
// value to its left, per row. It returns the number of cells filled.
func ForwardFillRows(m *domain.Matrix) int {
	filled := 0
	for _, row := range m.Cells {
		last := math.NaN()
		for j, cell := range row {
			if math.IsNaN(cell) {
				if !math.IsNaN(last) {
					row[j] = last
					filled++
				}
				continue
			}
			last = cell
		}
	}
	return filled
}

// BackwardFillRows replaces each missing cell with the nearest observed
// value to its right, per row. It returns the number of cells filled.
func BackwardFillRows(m *domain.Matrix) int {
	filled := 0
	for _, row := range m.Cells {
		next := math.NaN()
		for j := len(row) - 1; j >= 0; j-- {
			cell := row[j]
			if math.IsNaN(cell) {
				if !math.IsNaN(next) {
					row[j] = next
					filled++
				}
				continue
			}
			next = cell
		}
	}
	return filled
}
