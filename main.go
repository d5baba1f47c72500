package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/otis/internal/config"
	"github.com/sadopc/otis/internal/kv"
	"github.com/sadopc/otis/internal/logger"
	"github.com/sadopc/otis/internal/session"
	"github.com/sadopc/otis/internal/store"
	"github.com/sadopc/otis/internal/tui"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	region, err := kv.Open(cfg.DB.Path, kv.WithLogger(log), kv.WithWatchInterval(cfg.DB.WatchInterval))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer region.Close()

	s := store.New(region, log)
	if err := s.Seed(); err != nil {
		log.Error("seed failed", zap.Error(err))
	}

	sess, err := session.New(region, region, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error restoring session: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	app := tui.NewApp(s, sess)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Send blocks until the program reads the message, and callbacks may
	// run inside Update.
	sess.OnChange(func(loggedIn bool) {
		go p.Send(tui.SessionChangedMsg{LoggedIn: loggedIn})
	})
	unsubscribe := region.Subscribe(func(ev kv.Event) {
		switch ev.Key {
		case store.KeyInstallations, store.KeyInteractions, store.KeyFeedback:
			go p.Send(tui.StorageChangedMsg{Key: ev.Key})
		}
	})
	defer unsubscribe()

	log.Info("starting", zap.String("env", cfg.Env), zap.String("db", cfg.DB.Path))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
