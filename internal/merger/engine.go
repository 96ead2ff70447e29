package merger

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ryabkov82/f42-merger/internal/config"
	"github.com/ryabkov82/f42-merger/internal/metrics"
	"github.com/ryabkov82/f42-merger/internal/table"
)

// Engine reads F42 files, aligns their columns, stacks the rows and writes
// the merged workbook.
type Engine struct {
	cfg     *config.Config
	reader  *Reader
	log     logrus.FieldLogger
	metrics *metrics.Collector
}

var _ FileMerger = (*Engine)(nil)

// NewEngine builds an engine. m may be nil.
func NewEngine(cfg *config.Config, log logrus.FieldLogger, m *metrics.Collector) *Engine {
	return &Engine{
		cfg: cfg,
		reader: NewReader(ReadOptions{
			Sheet:             cfg.Input.Sheet,
			HeaderRow:         cfg.Input.HeaderRow,
			PlaceholderPrefix: cfg.Input.PlaceholderPrefix,
		}),
		log:     log,
		metrics: m,
	}
}

func (e *Engine) MergeFiles(paths []string, onPhase func(Phase)) (*Result, error) {
	start := time.Now()
	outcome := metrics.OutcomeFailure
	defer func() {
		e.metrics.Run(outcome, time.Since(start))
	}()

	if len(paths) == 0 {
		outcome = metrics.OutcomeNoFiles
		return nil, ErrNoFiles
	}

	runID, err := nanoid.New()
	if err != nil {
		runID = strconv.FormatInt(start.UnixNano(), 36)
	}
	log := e.log.WithField("run_id", runID)
	log.WithField("files", len(paths)).Info("merge started")

	notify(onPhase, PhaseReading)
	tables, read, skipped := e.readAll(paths, log)
	if len(tables) == 0 {
		log.WithField("files", len(paths)).Error("no file could be read")
		return nil, errors.Wrapf(ErrNoTables, "%d of %d files failed", len(skipped), len(paths))
	}

	notify(onPhase, PhaseAligning)
	merged, err := e.combine(tables)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"columns": len(merged.Columns),
		"rows":    merged.Len(),
	}).Debug("tables aligned")

	notify(onPhase, PhaseWriting)
	out, err := e.outputPath()
	if err != nil {
		return nil, err
	}
	if err := WriteTable(merged, out, WriteOptions{SheetName: e.cfg.Output.SheetName}); err != nil {
		log.WithError(err).Error("writing merged file failed")
		return nil, err
	}

	outcome = metrics.OutcomeSuccess
	e.metrics.Rows(merged.Len())

	res := &Result{
		RunID:        runID,
		OutputPath:   out,
		Columns:      merged.Columns,
		RowCount:     merged.Len(),
		FilesRead:    read,
		FilesSkipped: skipped,
		Duration:     time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"output":  out,
		"rows":    res.RowCount,
		"skipped": len(skipped),
	}).Info("merged file written")
	return res, nil
}

func notify(onPhase func(Phase), p Phase) {
	if onPhase != nil {
		onPhase(p)
	}
}

// readAll reads every path in order. Unreadable files are logged and left out.
func (e *Engine) readAll(paths []string, log logrus.FieldLogger) (tables []*table.Table, read, skipped []string) {
	for _, p := range paths {
		t, err := e.reader.ReadFile(p)
		if err != nil {
			log.WithFields(logrus.Fields{
				"file": filepath.Base(p),
				"path": p,
			}).WithError(err).Error("failed to read file, skipping")
			skipped = append(skipped, p)
			e.metrics.FileSkipped()
			continue
		}

		log.WithFields(logrus.Fields{
			"file":    filepath.Base(p),
			"rows":    t.Len(),
			"columns": len(t.Columns),
		}).Info("file read")
		tables = append(tables, t)
		read = append(read, p)
		e.metrics.FileRead()
	}
	return tables, read, skipped
}

func (e *Engine) combine(tables []*table.Table) (*table.Table, error) {
	cols, aligned := table.Align(tables)
	merged, err := table.Concat(cols, aligned)
	if err != nil {
		return nil, errors.Wrap(err, "concatenating tables")
	}
	if !e.cfg.Output.AddSourceFile {
		return merged, nil
	}

	sources := make([]table.Value, 0, merged.Len())
	for _, t := range aligned {
		name := table.String(filepath.Base(t.Source))
		for range t.Rows {
			sources = append(sources, name)
		}
	}
	merged, err = merged.WithColumn(e.cfg.Output.SourceColumn, sources)
	return merged, errors.Wrap(err, "adding source column")
}

// outputPath returns the configured output file, or a fresh file in a new
// temporary directory. Old temporary directories are left in place.
func (e *Engine) outputPath() (string, error) {
	if p := e.cfg.Output.Path; p != "" {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return filepath.Join(p, e.cfg.Output.FileName), nil
		}
		return p, nil
	}

	dir, err := os.MkdirTemp("", e.cfg.Output.TempPrefix)
	if err != nil {
		return "", &WriteError{Path: os.TempDir(), Err: err}
	}
	return filepath.Join(dir, e.cfg.Output.FileName), nil
}
