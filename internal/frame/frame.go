// Package frame provides a minimal ordered-column table of string cells,
// sufficient for accumulating heterogeneous raw session records and for the
// canonical four-column output. Cells hold the textual CSV representation;
// typed interpretation happens in the domain package. The empty string is the
// missing-value sentinel throughout.
package frame

import (
	"fmt"
)

// Frame is an ordered collection of named string columns with equal length.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New creates an empty frame with the given column order.
func New(cols []string) (*Frame, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	return &Frame{
		cols:  append([]string(nil), cols...),
		index: index,
	}, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// NumRows reports the number of rows.
func (f *Frame) NumRows() int { return len(f.rows) }

// Has reports whether the frame contains the named column.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Append adds one row. The row length must match the column count.
func (f *Frame) Append(row []string) error {
	if len(row) != len(f.cols) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(row), len(f.cols))
	}
	f.rows = append(f.rows, append([]string(nil), row...))
	return nil
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []string {
	return append([]string(nil), f.rows[i]...)
}

// Cell returns the value at row i of the named column.
func (f *Frame) Cell(i int, col string) (string, error) {
	j, ok := f.index[col]
	if !ok {
		return "", fmt.Errorf("no column %q", col)
	}
	if i < 0 || i >= len(f.rows) {
		return "", fmt.Errorf("row %d out of range [0,%d)", i, len(f.rows))
	}
	return f.rows[i][j], nil
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(col string) ([]string, error) {
	j, ok := f.index[col]
	if !ok {
		return nil, fmt.Errorf("no column %q", col)
	}
	values := make([]string, len(f.rows))
	for i, row := range f.rows {
		values[i] = row[j]
	}
	return values, nil
}

// SetColumn replaces the named column's values in place.
func (f *Frame) SetColumn(col string, values []string) error {
	j, ok := f.index[col]
	if !ok {
		return fmt.Errorf("no column %q", col)
	}
	if len(values) != len(f.rows) {
		return fmt.Errorf("column %q: %d values for %d rows", col, len(values), len(f.rows))
	}
	for i := range f.rows {
		f.rows[i][j] = values[i]
	}
	return nil
}

// AddColumn appends a new column with the given values.
func (f *Frame) AddColumn(col string, values []string) error {
	if _, dup := f.index[col]; dup {
		return fmt.Errorf("column %q already exists", col)
	}
	if len(values) != len(f.rows) {
		return fmt.Errorf("column %q: %d values for %d rows", col, len(values), len(f.rows))
	}
	f.index[col] = len(f.cols)
	f.cols = append(f.cols, col)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], values[i])
	}
	return nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out, _ := New(f.cols)
	out.rows = make([][]string, len(f.rows))
	for i, row := range f.rows {
		out.rows[i] = append([]string(nil), row...)
	}
	return out
}

// Select returns a new frame containing only the named columns, in the given
// order. Unknown columns are an error.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	indices := make([]int, len(cols))
	for i, c := range cols {
		j, ok := f.index[c]
		if !ok {
			return nil, fmt.Errorf("no column %q", c)
		}
		indices[i] = j
	}
	out, err := New(cols)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]string, len(f.rows))
	for i, row := range f.rows {
		selected := make([]string, len(indices))
		for k, j := range indices {
			selected[k] = row[j]
		}
		out.rows[i] = selected
	}
	return out, nil
}

// Rename returns a new frame with columns renamed per the mapping. Columns
// absent from the mapping keep their names.
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	cols := make([]string, len(f.cols))
	for i, c := range f.cols {
		if to, ok := mapping[c]; ok {
			cols[i] = to
		} else {
			cols[i] = c
		}
	}
	out, err := New(cols)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]string, len(f.rows))
	for i, row := range f.rows {
		out.rows[i] = append([]string(nil), row...)
	}
	return out, nil
}

// Union concatenates other's rows below f's over the union of both column
// sets. Column order is f's columns followed by other's columns not already
// present. Cells absent from a source frame are filled with the empty-string
// missing sentinel.
func (f *Frame) Union(other *Frame) *Frame {
	cols := append([]string(nil), f.cols...)
	for _, c := range other.cols {
		if !f.Has(c) {
			cols = append(cols, c)
		}
	}

	out, _ := New(cols)
	out.rows = make([][]string, 0, len(f.rows)+len(other.rows))
	appendReindexed := func(src *Frame) {
		for _, row := range src.rows {
			merged := make([]string, len(cols))
			for k, c := range cols {
				if j, ok := src.index[c]; ok {
					merged[k] = row[j]
				}
			}
			out.rows = append(out.rows, merged)
		}
	}
	appendReindexed(f)
	appendReindexed(other)
	return out
}
