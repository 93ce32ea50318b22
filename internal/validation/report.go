package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Report keys, in the order the checks run. The order is observable: the
// CLI prints entries as they were recorded and the JSON form preserves it.
const (
	KeyColumnsOK        = "columns_ok"
	KeyNoNaNs           = "no_nans"
	KeyMatrixOK         = "matrix_ok"
	KeyMatrixShape      = "matrix_shape"
	KeySparsity         = "sparsity"
	KeyLabelsMatch      = "labels_match"
	KeyReasonableRanges = "reasonable_ranges"
)

// Shape is the row/column count of a pivoted matrix.
type Shape struct {
	Rows int
	Cols int
}

// String renders the shape the way reports print it.
func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

// MarshalJSON renders the shape as a two-element array.
func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Rows, s.Cols})
}

// ReportEntry is a single recorded check result.
type ReportEntry struct {
	Key   string
	Value any
}

// Report is the ordered collection of validation results. Entries keep
// insertion order; shape and sparsity only appear when the pivot check
// succeeded.
type Report struct {
	entries []ReportEntry
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Set records a value, replacing an existing entry in place.
func (r *Report) Set(key string, value any) {
	for i := range r.entries {
		if r.entries[i].Key == key {
			r.entries[i].Value = value
			return
		}
	}
	r.entries = append(r.entries, ReportEntry{Key: key, Value: value})
}

// Get returns the recorded value for key.
func (r *Report) Get(key string) (any, bool) {
	for _, e := range r.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Bool returns the value for key as a bool. Absent or non-bool entries
// report false.
func (r *Report) Bool(key string) bool {
	v, ok := r.Get(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Entries returns the recorded results in order.
func (r *Report) Entries() []ReportEntry {
	return r.entries
}

// Len returns the number of recorded results.
func (r *Report) Len() int {
	return len(r.entries)
}

// MarshalJSON renders the report as an object with keys in insertion order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
