package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/intervals/internal/config"
	"github.com/sadopc/intervals/internal/cue"
	"github.com/sadopc/intervals/internal/platform"
	"github.com/sadopc/intervals/internal/presence"
	"github.com/sadopc/intervals/internal/store"
	"github.com/sadopc/intervals/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting", "config", cfgPath)

	var s *store.Store
	if cfg.History {
		dbPath, err := store.DefaultDBPath()
		if err != nil {
			return err
		}
		s, err = store.New(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer s.Close()
		if n, err := s.CancelStaleRuns(); err != nil {
			log.Warn("closing stale runs", "error", err)
		} else if n > 0 {
			log.Info("closed stale runs", "count", n)
		}
	}

	cues := cue.Load(cfg.Cue(), os.Stderr, log.With("component", "cue"))

	var port presence.Port
	if cfg.WakeLock {
		port = platform.NewWakeLock(config.AppName, "Workout in progress")
	}
	wake := presence.New(port, log.With("component", "wakelock"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := wake.Close(ctx); err != nil {
			log.Warn("wake lock release", "error", err)
		}
	}()

	app := tui.NewApp(tui.Options{
		Workout:  cfg.Session(),
		Store:    s,
		Cues:     cues,
		Presence: wake,
		Log:      log.With("component", "timer"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := config.Watch(ctx, cfgPath, log.With("component", "config"), func(c *config.Config) {
			p.Send(tui.ConfigReloadedMsg{Config: c})
		})
		if err != nil {
			log.Warn("config watcher stopped", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	log.Info("exiting")
	return nil
}

// openLog sends slog output to a file since the terminal belongs to the UI.
func openLog(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, func() { f.Close() }, nil
}
