package domain

import "math"

// Matrix is a dense object×epoch grid shared by the matrix builders, the
// validator, and the exporter. ObjectIDs and Epochs are the sorted row and
// column keys; Cells[i][j] holds the aggregated value for
// (ObjectIDs[i], Epochs[j]) with math.NaN() marking cells that had no
// observation.
type Matrix struct {
	ObjectIDs []string
	Epochs    []float64
	Cells     [][]float64
}

// Rows returns the number of objects in the matrix.
func (m *Matrix) Rows() int {
	return len(m.ObjectIDs)
}

// Cols returns the number of epochs in the matrix.
func (m *Matrix) Cols() int {
	return len(m.Epochs)
}

// MissingCells counts cells with no observation.
func (m *Matrix) MissingCells() int {
	count := 0
	for _, row := range m.Cells {
		for _, cell := range row {
			if math.IsNaN(cell) {
				count++
			}
		}
	}
	return count
}

// Sparsity returns the fraction of cells with no observation. An empty
// matrix has sparsity 0.
func (m *Matrix) Sparsity() float64 {
	size := m.Rows() * m.Cols()
	if size == 0 {
		return 0
	}
	return float64(m.MissingCells()) / float64(size)
}

// Mean returns the arithmetic mean over all cells, skipping missing ones.
// An empty or all-missing matrix has mean 0.
func (m *Matrix) Mean() float64 {
	sum := 0.0
	count := 0
	for _, row := range m.Cells {
		for _, cell := range row {
			if math.IsNaN(cell) {
				continue
			}
			sum += cell
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
