package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nickpending/catchup/internal/config"
	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/logging"
	"github.com/nickpending/catchup/internal/syncer"
	"github.com/nickpending/catchup/internal/ui"
)

func main() {
	// Parse CLI flags
	libraryPath := flag.String("library", "", "Library root (overrides config and the XDG default)")
	verbose := flag.Bool("verbose", false, "Log at debug level")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *libraryPath != "" {
		cfg.Library.Path = *libraryPath
	}

	root, err := cfg.LibraryRoot()
	if err != nil {
		log.Fatal(err)
	}

	// The TUI owns the terminal, so logs go to a file under the state dir
	stateDir, err := config.StateDir()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.File(filepath.Join(stateDir, "catchup.log"), *verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	lib, err := library.Open(root, logger)
	if err != nil {
		log.Fatal(err)
	}

	engine := syncer.New(syncer.Options{
		ItemLimit: cfg.Sync.ItemLimit,
		ASCIIOnly: cfg.Sync.ASCIINames,
		Timeout:   cfg.Timeout(),
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failed watch degrades to manual refresh, it does not stop the TUI
	watch, err := lib.Watch(ctx)
	if err != nil {
		logger.Warn("filesystem watch unavailable", zap.Error(err))
		watch = nil
	}

	p := tea.NewProgram(
		ui.NewModel(lib, engine, cfg.TUI.Theme, logger, watch),
		tea.WithAltScreen(), // Use alternate screen buffer
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
