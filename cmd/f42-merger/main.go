package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ryabkov82/f42-merger/internal/config"
	"github.com/ryabkov82/f42-merger/internal/log"
	"github.com/ryabkov82/f42-merger/internal/merger"
	"github.com/ryabkov82/f42-merger/internal/metrics"
	"github.com/ryabkov82/f42-merger/internal/session"
)

type Output struct {
	Success      bool     `json:"success"`
	OutputFile   string   `json:"output_file,omitempty"`
	RowCount     int      `json:"row_count"`
	Columns      []string `json:"columns,omitempty"`
	FilesRead    []string `json:"files_read,omitempty"`
	FilesSkipped []string `json:"files_skipped,omitempty"`
	RunID        string   `json:"run_id,omitempty"`
	Duration     string   `json:"duration"`
	Error        string   `json:"error,omitempty"`
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "f42-merger [files...]",
		Short: "Merge F42 Excel reports from several branches into one workbook",
		Long: `f42-merger reads F42 reports (.xlsx, .xls), aligns their columns by name
and writes every row into a single F42_MERGED.xlsx. The result is printed
as JSON on stdout; logs go to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, stdout)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string, stdout io.Writer) error {
	start := time.Now()
	fail := func(err error) error {
		emitJSON(stdout, Output{
			Success:  false,
			Error:    err.Error(),
			Duration: time.Since(start).String(),
		})
		return err
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fail(errors.Wrap(err, "configuration"))
	}

	logger := log.NewLogger(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.DisableTimestamp)
	m := metrics.New()
	defer func() {
		if cfg.MetricsTextfile == "" {
			return
		}
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.WithError(err).WithField("path", cfg.MetricsTextfile).Warn("could not write metrics")
		}
	}()

	s := session.New(merger.NewEngine(cfg, logger, m), logger)
	s.Attach(args...)
	if cfg.Input.Dir != "" {
		files, err := merger.CollectInputs(cfg.Input.Dir, cfg.AcceptsFile)
		if err != nil {
			return fail(err)
		}
		s.Attach(files...)
	}

	res, err := s.Merge()
	if err != nil {
		return fail(err)
	}

	emitJSON(stdout, Output{
		Success:      true,
		OutputFile:   res.OutputPath,
		RowCount:     res.RowCount,
		Columns:      res.Columns,
		FilesRead:    res.FilesRead,
		FilesSkipped: res.FilesSkipped,
		RunID:        res.RunID,
		Duration:     time.Since(start).String(),
	})
	return nil
}

func emitJSON(w io.Writer, out Output) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "writing JSON output: %v\n", err)
	}
}
