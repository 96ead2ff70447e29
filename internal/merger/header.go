package merger

import (
	"strings"

	"github.com/ryabkov82/f42-merger/internal/table"
)

// column maps a kept source column to its final name.
type column struct {
	index int
	name  string
}

// resolveHeader picks the columns to keep from a header row. Blank names and
// names starting with placeholderPrefix (matched before trimming) are
// dropped, the rest are trimmed and made unique.
func resolveHeader(cells []table.Value, placeholderPrefix string) []column {
	var cols []column
	for i, c := range cells {
		raw := c.String()
		if placeholderPrefix != "" && strings.HasPrefix(raw, placeholderPrefix) {
			continue
		}
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		cols = append(cols, column{index: i, name: name})
	}

	for i, n := range table.UniqueNames(columnNames(cols)) {
		cols[i].name = n
	}
	return cols
}

func columnNames(cols []column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}
