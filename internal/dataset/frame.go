// Package dataset loads the raw survey CSV tables into memory.
//
// A dataset directory holds three fixed files: detections.csv (the
// long-format photometry table), injections.csv (synthetic event truth),
// and object_meta.csv (per-object annotations). Both the validator and
// the transformer consume the same loaded representation, so cell
// semantics (what counts as missing, how numerics parse) live here and
// nowhere else.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "lcpipe/internal/errors"
)

// missingMarkers are the cell values treated as absent observations,
// matched after whitespace trimming.
var missingMarkers = map[string]bool{
	"":     true,
	"NaN":  true,
	"nan":  true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"None": true,
	"null": true,
	"NULL": true,
}

// IsMissing reports whether a raw cell value denotes a missing observation.
func IsMissing(value string) bool {
	return missingMarkers[strings.TrimSpace(value)]
}

// Frame is a raw in-memory table: an ordered header plus string rows as
// read from CSV. Numeric interpretation happens on access, not on load.
type Frame struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewFrame builds a Frame from a header and data rows. Duplicate column
// names keep the first occurrence. Rows are used as-is; callers must
// ensure each row has exactly len(columns) cells.
func NewFrame(name string, columns []string, rows [][]string) *Frame {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, exists := index[col]; !exists {
			index[col] = i
		}
	}

	return &Frame{
		name:    name,
		columns: columns,
		index:   index,
		rows:    rows,
	}
}

// Name returns the table name (e.g. "detections").
func (f *Frame) Name() string {
	return f.name
}

// Columns returns the header in file order.
func (f *Frame) Columns() []string {
	return f.columns
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether the header contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Cell returns the raw string value at (row, column). It returns the
// empty string when the column does not exist or the row is out of range.
func (f *Frame) Cell(row int, column string) string {
	idx, ok := f.index[column]
	if !ok || row < 0 || row >= len(f.rows) {
		return ""
	}
	return f.rows[row][idx]
}

// StringColumn returns the named column as trimmed strings. Missing
// column yields nil.
func (f *Frame) StringColumn(name string) []string {
	idx, ok := f.index[name]
	if !ok {
		return nil
	}

	values := make([]string, len(f.rows))
	for i, row := range f.rows {
		values[i] = strings.TrimSpace(row[idx])
	}
	return values
}

// FloatColumn returns the named column parsed as float64. Missing cells
// parse to NaN; any other unparsable cell is a parsing error naming the
// table, column, and row.
func (f *Frame) FloatColumn(name string) ([]float64, error) {
	idx, ok := f.index[name]
	if !ok {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s: column %q not found", f.name, name), nil)
	}

	values := make([]float64, len(f.rows))
	for i, row := range f.rows {
		cell := strings.TrimSpace(row[idx])
		if IsMissing(cell) {
			values[i] = math.NaN()
			continue
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s: column %q row %d: invalid numeric value %q", f.name, name, i, cell), err)
		}
		values[i] = v
	}
	return values, nil
}

// MissingCount returns how many cells in the named column are missing.
// A column that does not exist counts as fully missing.
func (f *Frame) MissingCount(name string) int {
	idx, ok := f.index[name]
	if !ok {
		return len(f.rows)
	}

	count := 0
	for _, row := range f.rows {
		if IsMissing(row[idx]) {
			count++
		}
	}
	return count
}
