// Package table implements the column-oriented string table the dashboard
// core operates on: column resolution against ordered candidate lists and
// tolerant coercion of messy string cells into numbers and dates.
//
// Tables are immutable from the caller's point of view: every deriving
// operation returns a new Table and leaves the receiver untouched.
package table

import "strings"

// Table is a row-oriented tabular structure with string-typed cells.
// Cells are loaded as text; coercion happens on demand.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New builds a Table from a header and rows. Column names are trimmed.
// Duplicate names keep the first occurrence in the index.
func New(cols []string, rows [][]string) *Table {
	trimmed := make([]string, len(cols))
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		name := strings.TrimSpace(c)
		trimmed[i] = name
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return &Table{cols: trimmed, index: index, rows: rows}
}

// Columns returns a copy of the column names in source order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the row count. Safe on a nil table.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool {
	return t.NumRows() == 0
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Col materializes the named column as a string slice of length NumRows.
// Rows shorter than the column index contribute an empty cell. An absent
// column (or nil table) yields nil, which every coercion helper treats as
// an all-missing column of length zero.
func (t *Table) Col(name string) []string {
	if t == nil {
		return nil
	}
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Row returns a copy of the row at index i, padded to the column count.
// Out-of-range indices yield nil.
func (t *Table) Row(i int) []string {
	if t == nil || i < 0 || i >= len(t.rows) {
		return nil
	}
	out := make([]string, len(t.cols))
	copy(out, t.rows[i])
	return out
}

// Cell returns the trimmed cell at (row, column name), or "" when either
// is out of range.
func (t *Table) Cell(row int, name string) string {
	if t == nil || row < 0 || row >= len(t.rows) {
		return ""
	}
	idx, ok := t.index[name]
	if !ok || idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

// WithColumn returns a copy of the table with the named column set to the
// given values. An existing column of the same name is replaced in place;
// otherwise the column is appended. Values shorter than the row count pad
// with empty cells.
func (t *Table) WithColumn(name string, values []string) *Table {
	if t == nil {
		return New([]string{name}, nil)
	}
	cell := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	if idx, ok := t.index[name]; ok {
		rows := make([][]string, len(t.rows))
		for i, row := range t.rows {
			nr := make([]string, len(t.cols))
			copy(nr, row)
			nr[idx] = cell(i)
			rows[i] = nr
		}
		return New(t.Columns(), rows)
	}

	cols := append(t.Columns(), name)
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		nr := make([]string, len(cols))
		copy(nr, row)
		nr[len(cols)-1] = cell(i)
		rows[i] = nr
	}
	return New(cols, rows)
}

// Select returns a new table containing the rows for which keep returns
// true, preserving order. Row slices are shared, not copied.
func (t *Table) Select(keep func(row int) bool) *Table {
	if t == nil {
		return nil
	}
	var rows [][]string
	for i, row := range t.rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return New(t.Columns(), rows)
}

// Resolve returns the first candidate name present among the table's
// columns, preserving candidate priority order. A nil/empty table or no
// match yields ("", false).
func Resolve(t *Table, candidates ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}
