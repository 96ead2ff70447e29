package merger

import (
	"time"
	"unicode/utf8"

	"github.com/ryabkov82/f42-merger/internal/table"
)

// Phase is the step a merge is in.
type Phase int

const (
	PhaseReading Phase = iota + 1
	PhaseAligning
	PhaseWriting
)

func (p Phase) String() string {
	switch p {
	case PhaseReading:
		return "reading"
	case PhaseAligning:
		return "aligning"
	case PhaseWriting:
		return "writing"
	}
	return "unknown"
}

type FileMerger interface {
	// MergeFiles reads paths in order, stacks their tables and writes the
	// result. onPhase, if not nil, is called when each phase starts.
	MergeFiles(paths []string, onPhase func(Phase)) (*Result, error)
}

type Result struct {
	RunID        string
	OutputPath   string
	Columns      []string
	RowCount     int
	FilesRead    []string
	FilesSkipped []string
	Duration     time.Duration
}

const (
	minColWidth = 8
	maxColWidth = 60
)

type BaseMerger struct {
	Headers      []string
	MaxColWidths map[int]int
}

// Init resets the header and width bookkeeping.
func (bm *BaseMerger) Init() {
	bm.MaxColWidths = make(map[int]int)
	bm.Headers = make([]string, 0)
}

// AnalyzeTable records the header and the widest rendered value of every
// column, used to size the output columns.
func (bm *BaseMerger) AnalyzeTable(t *table.Table) {
	bm.Headers = append(bm.Headers[:0], t.Columns...)
	for i, h := range t.Columns {
		bm.observe(i, h)
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if v.IsMissing() {
				continue
			}
			bm.observe(i, v.String())
		}
	}
}

func (bm *BaseMerger) observe(col int, s string) {
	if n := utf8.RuneCountInString(s); n > bm.MaxColWidths[col] {
		bm.MaxColWidths[col] = n
	}
}

// ColWidth returns the output width of column col (zero based).
func (bm *BaseMerger) ColWidth(col int) float64 {
	w := bm.MaxColWidths[col] + 2
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}
