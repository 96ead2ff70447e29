package table

import (
	"fmt"
	"strconv"
)

// Table is an ordered sequence of rows. Every row holds exactly one value
// per column, in column order.
type Table struct {
	Columns []string
	Rows    [][]Value
	// Source is the file the table was read from, if any.
	Source string
}

func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row. Short rows are padded with Missing.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	row := make([]Value, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Cell returns the value at row i in column name. ok is false when the
// column does not exist or i is out of range.
func (t *Table) Cell(i int, name string) (v Value, ok bool) {
	j := t.ColumnIndex(name)
	if j < 0 || i < 0 || i >= len(t.Rows) {
		return Missing(), false
	}
	return t.Rows[i][j], true
}

// Record returns row i as a column name to value mapping.
func (t *Table) Record(i int) map[string]Value {
	rec := make(map[string]Value, len(t.Columns))
	for j, c := range t.Columns {
		rec[c] = t.Rows[i][j]
	}
	return rec
}

// WithColumn returns a copy of t with one more column appended. values must
// hold one entry per row. If name is taken it gets a numeric suffix.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}
	cols := append(append([]string(nil), t.Columns...), name)
	cols = UniqueNames(cols)
	out := &Table{Columns: cols, Rows: make([][]Value, len(t.Rows)), Source: t.Source}
	for i, row := range t.Rows {
		r := make([]Value, 0, len(cols))
		r = append(r, row...)
		out.Rows[i] = append(r, values[i])
	}
	return out, nil
}

// Equal reports whether both tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// UniqueNames renames repeated entries as "name.1", "name.2", ... keeping
// the first occurrence as is.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	counts := make(map[string]int)
	for i, n := range names {
		candidate := n
		for seen[candidate] {
			counts[n]++
			candidate = n + "." + strconv.Itoa(counts[n])
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}
