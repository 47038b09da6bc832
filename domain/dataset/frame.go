package dataset

import (
	"fmt"

	"fairbench/domain/core"
)

// Frame is an in-memory tabular dataset: an ordered set of named columns of
// equal length. All values are float64; categorical columns are expected to be
// integer-coded upstream and missing values carried as NaN.
type Frame struct {
	columns []core.ColumnKey
	data    map[core.ColumnKey][]float64
}

// NewFrame creates an empty frame with the given column order.
func NewFrame(columns []core.ColumnKey) *Frame {
	data := make(map[core.ColumnKey][]float64, len(columns))
	for _, c := range columns {
		data[c] = nil
	}
	return &Frame{columns: append([]core.ColumnKey(nil), columns...), data: data}
}

// FrameFromColumns builds a frame from pre-built column vectors. All columns
// must have identical length.
func FrameFromColumns(columns []core.ColumnKey, data map[core.ColumnKey][]float64) (*Frame, error) {
	f := NewFrame(columns)
	n := -1
	for _, c := range columns {
		vals, ok := data[c]
		if !ok {
			return nil, fmt.Errorf("missing data for column %q", c)
		}
		if n == -1 {
			n = len(vals)
		} else if len(vals) != n {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c, len(vals), n)
		}
		f.data[c] = append([]float64(nil), vals...)
	}
	return f, nil
}

// Columns returns the column order.
func (f *Frame) Columns() []core.ColumnKey {
	return append([]core.ColumnKey(nil), f.columns...)
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.data[f.columns[0]])
}

// Cols returns the number of columns.
func (f *Frame) Cols() int {
	return len(f.columns)
}

// HasColumn reports whether the frame contains the column.
func (f *Frame) HasColumn(key core.ColumnKey) bool {
	_, ok := f.data[key]
	return ok
}

// Column returns the values of a single column. The returned slice aliases
// frame storage; callers that mutate it should Copy the frame first.
func (f *Frame) Column(key core.ColumnKey) ([]float64, error) {
	vals, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", key)
	}
	return vals, nil
}

// AppendRow appends one row of values in column order.
func (f *Frame) AppendRow(vals []float64) error {
	if len(vals) != len(f.columns) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(vals), len(f.columns))
	}
	for i, c := range f.columns {
		f.data[c] = append(f.data[c], vals[i])
	}
	return nil
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := NewFrame(f.columns)
	for _, c := range f.columns {
		out.data[c] = append([]float64(nil), f.data[c]...)
	}
	return out
}

// Select returns a new frame containing only the requested columns, in the
// requested order.
func (f *Frame) Select(keys ...core.ColumnKey) (*Frame, error) {
	out := NewFrame(keys)
	for _, k := range keys {
		vals, ok := f.data[k]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", k)
		}
		out.data[k] = append([]float64(nil), vals...)
	}
	return out, nil
}

// Drop returns a new frame without the given column. Dropping a column that
// is not present is a no-op.
func (f *Frame) Drop(key core.ColumnKey) *Frame {
	cols := make([]core.ColumnKey, 0, len(f.columns))
	for _, c := range f.columns {
		if c != key {
			cols = append(cols, c)
		}
	}
	out := NewFrame(cols)
	for _, c := range cols {
		out.data[c] = append([]float64(nil), f.data[c]...)
	}
	return out
}

// SetConstant overwrites every value of the column with val. This is the
// counterfactual intervention primitive: all other columns stay untouched.
func (f *Frame) SetConstant(key core.ColumnKey, val float64) error {
	vals, ok := f.data[key]
	if !ok {
		return fmt.Errorf("unknown column %q", key)
	}
	for i := range vals {
		vals[i] = val
	}
	return nil
}

// FilterEq returns a new frame with only the rows whose column value equals
// val. The result may be empty.
func (f *Frame) FilterEq(key core.ColumnKey, val float64) (*Frame, error) {
	col, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", key)
	}
	out := NewFrame(f.columns)
	for i, v := range col {
		if v == val {
			for _, c := range f.columns {
				out.data[c] = append(out.data[c], f.data[c][i])
			}
		}
	}
	return out, nil
}

// Matrix returns a row-major copy of the frame for classifier input.
func (f *Frame) Matrix() [][]float64 {
	n := f.Rows()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(f.columns))
		for j, c := range f.columns {
			row[j] = f.data[c][i]
		}
		out[i] = row
	}
	return out
}

// Distinct returns the distinct values of vals in first-occurrence order.
func Distinct(vals []float64) []float64 {
	seen := make(map[float64]bool, len(vals))
	var out []float64
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
