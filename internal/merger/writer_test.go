package merger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryabkov82/f42-merger/internal/table"
)

func TestWriteTable(t *testing.T) {
	tb := table.New([]string{"Name", "Sede", "Total"})
	require.NoError(t, tb.AppendRow(table.String("Ana"), table.String("Norte"), table.Number(10)))
	require.NoError(t, tb.AppendRow(table.String("Juan"), table.Missing(), table.Number(2.5)))

	path := filepath.Join(t.TempDir(), "nested", "F42_MERGED.xlsx")
	require.NoError(t, WriteTable(tb, path, WriteOptions{}))

	rows := readRows(t, path, "Sheet1")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Sede", "Total"}, rows[0])
	assert.Equal(t, []string{"Ana", "Norte", "10"}, rows[1])
	assert.Equal(t, []string{"Juan", "", "2.5"}, rows[2])
}

func TestWriteTableRoundTrip(t *testing.T) {
	day := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	tb := table.New([]string{"Name", "Fecha", "Activo", "Total"})
	require.NoError(t, tb.AppendRow(table.String("Ana"), table.Time(day), table.Bool(true), table.Number(3)))
	require.NoError(t, tb.AppendRow(table.String("Luis"), table.Missing(), table.Bool(false), table.Missing()))

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteTable(tb, path, WriteOptions{SheetName: "Merged"}))

	back, err := NewReader(ReadOptions{Sheet: "Merged", HeaderRow: 0}).ReadFile(path)
	require.NoError(t, err)
	back.Source = ""
	assert.True(t, tb.Equal(back), "got %v", back.Rows)
}

func TestWriteTableNoColumns(t *testing.T) {
	tb := table.New(nil)
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteTable(tb, path, WriteOptions{}))
	assert.Empty(t, readRows(t, path, "Sheet1"))
}

func TestWriteTableFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := WriteTable(table.New([]string{"A"}), filepath.Join(blocker, "out.xlsx"), WriteOptions{})
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, filepath.Join(blocker, "out.xlsx"), writeErr.Path)
}

func TestColWidth(t *testing.T) {
	tb := table.New([]string{"Id", "Descripción"})
	require.NoError(t, tb.AppendRow(table.Number(1), table.String(string(make([]rune, 100)))))

	var bm BaseMerger
	bm.Init()
	bm.AnalyzeTable(tb)
	assert.Equal(t, []string{"Id", "Descripción"}, bm.Headers)
	assert.Equal(t, float64(minColWidth), bm.ColWidth(0))
	assert.Equal(t, float64(maxColWidth), bm.ColWidth(1))
}
