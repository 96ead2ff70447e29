package merger

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/f42-merger/internal/table"
)

const defaultSheet = "Sheet1"

type WriteOptions struct {
	SheetName string
}

// WriteTable writes t to a new workbook at path: one header row with the
// column names, then the rows. Missing cells stay blank.
func WriteTable(t *table.Table, path string, opts WriteOptions) error {
	if err := writeTable(t, path, opts); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeTable(t *table.Table, path string, opts WriteOptions) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return errors.Wrap(err, "renaming sheet")
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrap(err, "creating stream writer")
	}

	var bm BaseMerger
	bm.Init()
	bm.AnalyzeTable(t)
	for i := range bm.Headers {
		if err := sw.SetColWidth(i+1, i+1, bm.ColWidth(i)); err != nil {
			return errors.Wrapf(err, "setting width of column %d", i+1)
		}
	}

	if len(bm.Headers) == 0 {
		if err := sw.Flush(); err != nil {
			return errors.Wrap(err, "flushing rows")
		}
		return errors.Wrap(f.SaveAs(path), "saving workbook")
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection:   []excelize.Selection{{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"}},
	}); err != nil {
		return errors.Wrap(err, "freezing header row")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	dateFmt, dateTimeFmt := "yyyy-mm-dd", "yyyy-mm-dd hh:mm:ss"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return errors.Wrap(err, "creating date style")
	}
	dateTimeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateTimeFmt})
	if err != nil {
		return errors.Wrap(err, "creating date style")
	}

	headerRow := make([]interface{}, len(bm.Headers))
	for i, h := range bm.Headers {
		headerRow[i] = excelize.Cell{Value: h, StyleID: headerStyle}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return errors.Wrap(err, "writing header row")
	}

	for r, row := range t.Rows {
		rowData := make([]interface{}, len(row))
		for i, v := range row {
			switch v.Kind() {
			case table.KindMissing:
				rowData[i] = nil
			case table.KindTime:
				styleID := dateTimeStyle
				if v.DateOnly() {
					styleID = dateStyle
				}
				rowData[i] = excelize.Cell{Value: v.Interface(), StyleID: styleID}
			default:
				rowData[i] = v.Interface()
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, rowData); err != nil {
			return errors.Wrapf(err, "writing row %d", r+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flushing rows")
	}
	return errors.Wrap(f.SaveAs(path), "saving workbook")
}
