package merger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeF42 saves a workbook in the F42 layout: a title row, the header on
// the second row, then the data rows.
func writeF42(t *testing.T, dir, name string, header []interface{}, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	title := []interface{}{"Reporte F42", "Generado por sistema"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &title))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &header))
	for i, r := range rows {
		r := r
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeGarbage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("this is not a spreadsheet"), 0o644))
	return path
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}
