package main

import (
	"fmt"
	"os"

	"gioui.org/app"

	"github.com/ryabkov82/f42-merger/internal/config"
	"github.com/ryabkov82/f42-merger/internal/log"
	"github.com/ryabkov82/f42-merger/internal/merger"
	"github.com/ryabkov82/f42-merger/internal/session"
	"github.com/ryabkov82/f42-merger/internal/ui"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.NewLogger(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.DisableTimestamp)
	s := session.New(merger.NewEngine(cfg, logger, nil), logger)
	mainWindow := ui.NewMainWindow(s, ui.DefaultOpener, logger)

	go func() {
		if err := mainWindow.Run(); err != nil {
			logger.WithError(err).Error("window closed with error")
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}
