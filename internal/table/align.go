package table

import "fmt"

// Universe returns the ordered union of column names: tables in order, and
// inside each table its own column order. Each name appears once.
func Universe(tables []*Table) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if seen[c] {
				continue
			}
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}

// Reindex returns a new table with exactly the given columns. Columns that
// t lacks are Missing in every row; columns of t not listed are dropped.
func Reindex(t *Table, columns []string) *Table {
	src := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, ok := src[c]; !ok {
			src[c] = i
		}
	}
	pick := make([]int, len(columns))
	for j, c := range columns {
		if i, ok := src[c]; ok {
			pick[j] = i
		} else {
			pick[j] = -1
		}
	}

	out := New(columns)
	out.Source = t.Source
	out.Rows = make([][]Value, len(t.Rows))
	for r, row := range t.Rows {
		aligned := make([]Value, len(columns))
		for j, i := range pick {
			if i >= 0 && i < len(row) {
				aligned[j] = row[i]
			}
		}
		out.Rows[r] = aligned
	}
	return out
}

// Align computes the Universe of tables and reindexes each table to it.
func Align(tables []*Table) ([]string, []*Table) {
	cols := Universe(tables)
	aligned := make([]*Table, len(tables))
	for i, t := range tables {
		aligned[i] = Reindex(t, cols)
	}
	return cols, aligned
}

// Concat stacks the rows of tables in order. Every table must already have
// exactly columns, in that order.
func Concat(columns []string, tables []*Table) (*Table, error) {
	total := 0
	for i, t := range tables {
		if !sameColumns(columns, t.Columns) {
			return nil, fmt.Errorf("table %d (%s) is not aligned: columns %q, want %q", i, t.Source, t.Columns, columns)
		}
		total += len(t.Rows)
	}

	out := New(columns)
	out.Rows = make([][]Value, 0, total)
	for _, t := range tables {
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
