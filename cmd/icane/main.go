package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"icane/internal/adapters/browser"
	"icane/internal/adapters/editor"
	"icane/internal/adapters/filesystem"
	"icane/internal/adapters/sqlite"
	"icane/internal/adapters/tui"
	"icane/internal/adapters/tui/views"
	"icane/internal/config"
	"icane/internal/logger"
	"icane/internal/ports"
)

func main() {
	configFlag := flag.String("config", "", "config file (default "+config.DefaultConfigFile+")")
	mirrorFlag := flag.String("mirror", "", "directory holding mirrored API payloads")
	flag.Parse()

	if err := run(*configFlag, *mirrorFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mirrorRoot string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if mirrorRoot != "" {
		cfg.Mirror.Root = config.ExpandHome(mirrorRoot)
	}

	if cfg.Log.File != "" {
		if err := logger.InitializeFile(cfg.Log.File, cfg.Log.JSON, cfg.Log.Level); err != nil {
			return err
		}
		defer logger.Sync()
	}
	log := logger.Named("tui")

	leaves := cfg.Leaves()
	mirror := filesystem.NewMirror(cfg.Mirror.Root, leaves)

	var searcher ports.Searcher = mirror
	if _, err := os.Stat(cfg.Database.Path); err == nil {
		store := sqlite.NewStore()
		if err := store.Open(cfg.Database.Path); err != nil {
			return err
		}
		defer store.Close()
		searcher = store
	}

	app := tui.NewApp(mirror, searcher, leaves, editor.NewOpener(), browser.NewOpener())
	p := tea.NewProgram(app, tea.WithAltScreen())

	watcher, err := filesystem.NewWatcher(mirror.Root())
	if err != nil {
		log.Warnw("Mirror changes will not be picked up",
			logger.FieldPath, mirror.Root(),
			logger.FieldError, err)
	} else {
		watcher.OnChange(func(files []string) {
			p.Send(views.MirrorChangedMsg{Files: files})
		})
		watcher.Start()
		defer watcher.Stop()
	}

	_, err = p.Run()
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
