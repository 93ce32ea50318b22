package dataprocessing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcpipe/internal/dataset"
	apperrors "lcpipe/internal/errors"
)

// detectionsFrame builds a minimal detections table for pivot tests.
func detectionsFrame(columns []string, rows [][]string) *dataset.Frame {
	return dataset.NewFrame("detections", columns, rows)
}

func TestBuildTimeSeriesMatrix(t *testing.T) {
	t.Run("pivots mean magnitude by object and epoch", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{
				{"OBJ002", "1", "20.0"},
				{"OBJ001", "2", "19.0"},
				{"OBJ001", "1", "18.0"},
			})

		m, err := BuildTimeSeriesMatrix(frame)
		require.NoError(t, err)

		// Rows and columns come out sorted regardless of input order
		assert.Equal(t, []string{"OBJ001", "OBJ002"}, m.ObjectIDs)
		assert.Equal(t, []float64{1, 2}, m.Epochs)

		assert.Equal(t, 18.0, m.Cells[0][0])
		assert.Equal(t, 19.0, m.Cells[0][1])
		assert.Equal(t, 20.0, m.Cells[1][0])
		assert.True(t, math.IsNaN(m.Cells[1][1]))
	})

	t.Run("duplicate observations average", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{
				{"OBJ001", "1", "18.0"},
				{"OBJ001", "1", "20.0"},
			})

		m, err := BuildTimeSeriesMatrix(frame)
		require.NoError(t, err)
		require.Equal(t, 1, m.Rows())
		require.Equal(t, 1, m.Cols())
		assert.Equal(t, 19.0, m.Cells[0][0])
	})

	t.Run("drops detections with missing pivot keys", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{
				{"OBJ001", "1", "18.0"},
				{"", "2", "19.0"},
				{"OBJ002", "NaN", "20.0"},
			})

		m, err := BuildTimeSeriesMatrix(frame)
		require.NoError(t, err)
		assert.Equal(t, []string{"OBJ001"}, m.ObjectIDs)
		assert.Equal(t, []float64{1}, m.Epochs)
	})

	t.Run("drops objects and epochs with no observed magnitude", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{
				{"OBJ001", "1", "18.0"},
				{"OBJ001", "2", "NaN"},
				{"OBJ002", "1", "NaN"},
				{"OBJ002", "2", ""},
			})

		m, err := BuildTimeSeriesMatrix(frame)
		require.NoError(t, err)

		// OBJ002 never has an observed mag; epoch 2 never does either.
		assert.Equal(t, []string{"OBJ001"}, m.ObjectIDs)
		assert.Equal(t, []float64{1}, m.Epochs)
		assert.Equal(t, 18.0, m.Cells[0][0])
	})

	t.Run("empty table pivots to an empty matrix", func(t *testing.T) {
		frame := detectionsFrame([]string{"object_id", "epoch_day", "mag"}, nil)

		m, err := BuildTimeSeriesMatrix(frame)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Rows())
		assert.Equal(t, 0, m.Cols())
		assert.Equal(t, 0.0, m.Sparsity())
	})

	t.Run("missing object_id column is a parsing error", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"epoch_day", "mag"},
			[][]string{{"1", "18.0"}})

		_, err := BuildTimeSeriesMatrix(frame)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	})

	t.Run("malformed epoch is a parsing error", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{{"OBJ001", "not-a-day", "18.0"}})

		_, err := BuildTimeSeriesMatrix(frame)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "epoch_day")
	})

	t.Run("malformed magnitude is a parsing error", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{{"OBJ001", "1", "bright"}})

		_, err := BuildTimeSeriesMatrix(frame)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mag")
	})
}

func TestBuildLabelMatrix(t *testing.T) {
	objectIDs := []string{"OBJ001", "OBJ002"}
	epochs := []float64{1, 2}

	t.Run("missing is_injection column yields zeros", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "mag"},
			[][]string{{"OBJ001", "1", "18.0"}})

		labels, err := BuildLabelMatrix(frame, objectIDs, epochs)
		require.NoError(t, err)

		assert.Equal(t, objectIDs, labels.ObjectIDs)
		assert.Equal(t, epochs, labels.Epochs)
		for _, row := range labels.Cells {
			for _, cell := range row {
				assert.Equal(t, 0.0, cell)
			}
		}
	})

	t.Run("max aggregation aligned to the given keys", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "is_injection"},
			[][]string{
				{"OBJ001", "1", "0"},
				{"OBJ001", "1", "1"},
				{"OBJ001", "2", "0"},
				{"OBJ002", "2", "1"},
				{"OBJ999", "1", "1"},
				{"OBJ001", "9", "1"},
			})

		labels, err := BuildLabelMatrix(frame, objectIDs, epochs)
		require.NoError(t, err)

		// OBJ999 and epoch 9 lie outside the time-series keys and are
		// discarded; unobserved cells stay 0.
		assert.Equal(t, objectIDs, labels.ObjectIDs)
		assert.Equal(t, epochs, labels.Epochs)
		assert.Equal(t, [][]float64{
			{1, 0},
			{0, 1},
		}, labels.Cells)
	})

	t.Run("missing flags default to zero", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "is_injection"},
			[][]string{
				{"OBJ001", "1", "NaN"},
				{"OBJ002", "1", "1"},
			})

		labels, err := BuildLabelMatrix(frame, objectIDs, epochs)
		require.NoError(t, err)
		assert.Equal(t, 0.0, labels.Cells[0][0])
		assert.Equal(t, 1.0, labels.Cells[1][0])
	})

	t.Run("malformed flag is a parsing error", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "is_injection"},
			[][]string{{"OBJ001", "1", "yes"}})

		_, err := BuildLabelMatrix(frame, objectIDs, epochs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is_injection")
	})

	t.Run("empty keys yield an empty matrix", func(t *testing.T) {
		frame := detectionsFrame(
			[]string{"object_id", "epoch_day", "is_injection"},
			[][]string{{"OBJ001", "1", "1"}})

		labels, err := BuildLabelMatrix(frame, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, labels.Rows())
		assert.Equal(t, 0, labels.Cols())
		assert.Equal(t, 0.0, labels.Mean())
	})
}

func TestBuildLabelMatrix_DoesNotShareKeySlices(t *testing.T) {
	frame := detectionsFrame(
		[]string{"object_id", "epoch_day", "is_injection"},
		[][]string{{"OBJ001", "1", "1"}})

	objectIDs := []string{"OBJ001"}
	epochs := []float64{1}

	labels, err := BuildLabelMatrix(frame, objectIDs, epochs)
	require.NoError(t, err)

	objectIDs[0] = "CHANGED"
	epochs[0] = 99

	assert.Equal(t, []string{"OBJ001"}, labels.ObjectIDs)
	assert.Equal(t, []float64{1}, labels.Epochs)
}

func TestPivot_SparsityMatchesMissingFraction(t *testing.T) {
	frame := detectionsFrame(
		[]string{"object_id", "epoch_day", "mag"},
		[][]string{
			{"OBJ001", "1", "18.0"},
			{"OBJ001", "2", "18.5"},
			{"OBJ002", "1", "20.0"},
			{"OBJ002", "3", "21.0"},
			{"OBJ003", "3", "22.0"},
		})

	m, err := BuildTimeSeriesMatrix(frame)
	require.NoError(t, err)

	require.Equal(t, 3, m.Rows())
	require.Equal(t, 3, m.Cols())

	// 9 cells, 5 observed
	assert.Equal(t, 4, m.MissingCells())
	assert.InDelta(t, 4.0/9.0, m.Sparsity(), 1e-12)
}
