package merger

import (
	"strconv"

	"github.com/extrame/xls"
	"github.com/pkg/errors"

	"github.com/ryabkov82/f42-merger/internal/table"
)

// xlsSheet reads legacy BIFF workbooks. The library hands out cells as
// formatted text, so numbers are recovered by parsing.
type xlsSheet struct {
	ws *xls.WorkSheet
}

func openXLS(path, sheet string) (*xlsSheet, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	if wb == nil {
		return nil, errors.New("open workbook: no Workbook stream")
	}

	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			names = append(names, ws.Name)
		}
	}
	name, err := pickSheet(names, sheet)
	if err != nil {
		return nil, err
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil && ws.Name == name {
			return &xlsSheet{ws: ws}, nil
		}
	}
	return nil, errors.Errorf("sheet %q not found", name)
}

func (s *xlsSheet) Close() error {
	return nil
}

func (s *xlsSheet) Rows(fn func(cells []table.Value) error) error {
	for i := 0; i <= int(s.ws.MaxRow); i++ {
		var cells []table.Value
		if row := rowAt(s.ws, i); row != nil && row.LastCol() > 0 {
			cells = make([]table.Value, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = xlsValue(row.Col(c))
			}
		}
		if err := fn(cells); err != nil {
			return err
		}
	}
	return nil
}

// rowAt returns row i, or nil when the sheet does not store it. The library
// dereferences the missing row itself, hence the recover.
func rowAt(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func xlsValue(s string) table.Value {
	if s == "" {
		return table.Missing()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return table.Number(n)
	}
	return table.String(s)
}
