package merger

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/f42-merger/internal/table"
)

type xlsxSheet struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func openXLSX(path, sheet string) (*xlsxSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}

	name, err := pickSheet(f.GetSheetList(), sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	s := &xlsxSheet{
		f:          f,
		sheet:      name,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		s.date1904 = *props.Date1904
	}
	return s, nil
}

func (s *xlsxSheet) Close() error {
	return s.f.Close()
}

func (s *xlsxSheet) Rows(fn func(cells []table.Value) error) error {
	rows, err := s.f.Rows(s.sheet)
	if err != nil {
		return errors.Wrapf(err, "reading rows of sheet %q", s.sheet)
	}
	defer rows.Close()

	rowNum := 0
	for rows.Next() {
		rowNum++
		raw, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return errors.Wrapf(err, "reading row %d", rowNum)
		}

		cells := make([]table.Value, len(raw))
		for i, v := range raw {
			cells[i] = s.value(i+1, rowNum, v)
		}
		if err := fn(cells); err != nil {
			return err
		}
	}
	return rows.Error()
}

// value types a raw cell the way the source workbook declares it.
func (s *xlsxSheet) value(col, row int, raw string) table.Value {
	if raw == "" {
		return table.Missing()
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.String(raw)
	}
	valType, err := s.f.GetCellType(s.sheet, cell)
	if err != nil {
		return table.String(raw)
	}

	switch valType {
	case excelize.CellTypeBool:
		return table.Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return table.Time(t)
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return table.Time(t)
		}
		return table.String(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return table.String(raw)
		}
		if s.isDateCell(cell) {
			if t, err := excelize.ExcelDateToTime(n, s.date1904); err == nil {
				return table.Time(t)
			}
		}
		return table.Number(n)
	}
	return table.String(raw)
}

func (s *xlsxSheet) isDateCell(cell string) bool {
	styleID, err := s.f.GetCellStyle(s.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if d, ok := s.dateStyles[styleID]; ok {
		return d
	}

	d := false
	if style, err := s.f.GetStyle(styleID); err == nil {
		d = isDateFormat(style.NumFmt) || (style.CustomNumFmt != nil && isDateLayout(*style.CustomNumFmt))
	}
	s.dateStyles[styleID] = d
	return d
}

func pickSheet(list []string, want string) (string, error) {
	if len(list) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if want == "" {
		return list[0], nil
	}
	for _, name := range list {
		if name == want {
			return name, nil
		}
	}
	return "", errors.Errorf("sheet %q not found", want)
}

func isDateFormat(fmtID int) bool {
	switch fmtID {
	case 14, 15, 16, 17, 22, 27, 30, 36, 45, 46, 47:
		return true
	}
	return false
}

// isDateLayout reports whether a custom number format shows a date or a
// time of day. Quoted text, escaped characters and [..] sections such as
// colours are ignored.
func isDateLayout(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	plain := strings.ToLower(b.String())
	switch {
	case strings.ContainsAny(plain, "yd"), strings.Contains(plain, "mmm"):
		return true
	case strings.Contains(plain, "m") && strings.ContainsAny(plain, "hs"):
		return true
	}
	return false
}
