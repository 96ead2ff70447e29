package merger

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ryabkov82/f42-merger/internal/table"
)

// sheetSource yields the physical rows of one worksheet.
type sheetSource interface {
	// Rows calls fn for every physical row from the top, blank rows
	// included. An error from fn stops the iteration and is returned.
	Rows(fn func(cells []table.Value) error) error
	Close() error
}

type ReadOptions struct {
	Sheet             string // empty means the first sheet
	HeaderRow         int    // zero based
	PlaceholderPrefix string
}

// Reader turns F42 report files into tables.
type Reader struct {
	opts ReadOptions
}

func NewReader(opts ReadOptions) *Reader {
	return &Reader{opts: opts}
}

// ReadFile parses one file. Any failure, including a panic inside the
// spreadsheet parser, is returned as a *ReadError.
func (r *Reader) ReadFile(path string) (t *table.Table, err error) {
	defer func() {
		if p := recover(); p != nil {
			t = nil
			err = &ReadError{Path: path, Err: errors.Errorf("parser panic: %v", p)}
		}
	}()

	src, err := openSheet(path, r.opts.Sheet)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer src.Close()

	t, err = r.buildTable(src)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	t.Source = path
	return t, nil
}

func openSheet(path, sheet string) (sheetSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return openXLS(path, sheet)
	default:
		return openXLSX(path, sheet)
	}
}

func (r *Reader) buildTable(src sheetSource) (*table.Table, error) {
	var (
		cols   []column
		t      *table.Table
		rowIdx int
	)

	err := src.Rows(func(cells []table.Value) error {
		defer func() { rowIdx++ }()

		if rowIdx < r.opts.HeaderRow {
			return nil
		}
		if rowIdx == r.opts.HeaderRow {
			cols = resolveHeader(cells, r.opts.PlaceholderPrefix)
			t = table.New(columnNames(cols))
			return nil
		}
		if blankRow(cells) {
			return nil
		}

		row := make([]table.Value, len(cols))
		for j, c := range cols {
			if c.index < len(cells) {
				row[j] = cells[c.index]
			}
		}
		t.Rows = append(t.Rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.Wrapf(ErrNoHeader, "sheet has %d rows, header expected on row %d", rowIdx, r.opts.HeaderRow+1)
	}
	return t, nil
}

func blankRow(cells []table.Value) bool {
	for _, c := range cells {
		if !c.IsMissing() {
			return false
		}
	}
	return true
}
