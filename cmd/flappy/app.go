package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/progress"
	"github.com/vovakirdan/tui-flappy/internal/save"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     config.AppConfig
	logger  *log.Logger
	gateway *save.Gateway
	game    *progress.Game
	closers []func() error
}

// openApp loads config, opens the backend and builds the game core. When
// toFile is set the logger writes to the configured log file so it does not
// draw over the TUI.
func openApp(toFile bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagBackend != "" {
		cfg.Save.Backend = flagBackend
	}
	if flagSavePath != "" {
		cfg.Save.Path = flagSavePath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &app{cfg: cfg}
	if err := a.openLogger(toFile); err != nil {
		return nil, err
	}

	backend, closeBackend, err := storage.OpenBackend(cfg.Save.Backend, cfg.SavePath())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeBackend)
	a.logger.Debug("backend opened", "backend", cfg.Save.Backend, "path", cfg.SavePath())

	a.gateway = save.NewGateway(backend, a.logger.WithPrefix("save"))
	rec, err := a.gateway.Load()
	switch {
	case errors.Is(err, save.ErrUnreadable):
		a.logger.Error("save unreadable, progress will not be saved this run", "error", err)
	case err != nil:
		// Defaults are in memory; the game still runs.
		a.logger.Warn("could not write initial save", "error", err)
	}

	a.game, err = progress.New(a.gateway, rec, nil, a.logger.WithPrefix("progress"))
	if err != nil {
		a.Close()
		return nil, err
	}

	if name := cfg.Player.Name; name != "" && a.game.Settings.PlayerName() == save.DefaultPlayerName && name != save.DefaultPlayerName {
		if err := a.game.Settings.SetPlayerName(name); err != nil {
			a.logger.Warn("could not save player name", "error", err)
		}
	}
	return a, nil
}

func (a *app) openLogger(toFile bool) error {
	level, err := a.cfg.LogLevel()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if toFile {
		w = io.Discard
		if a.cfg.Log.File != "" {
			path, err := storage.ExpandHome(a.cfg.Log.File)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			a.closers = append(a.closers, f.Close)
			w = f
		}
	}

	a.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
		Level:           level,
	})
	return nil
}

// Close releases the backend and log file.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
