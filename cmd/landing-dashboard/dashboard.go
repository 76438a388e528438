package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xmhha/landing-dashboard/pkg/config"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/notify"
	"github.com/0xmhha/landing-dashboard/pkg/refresh"
	"github.com/0xmhha/landing-dashboard/pkg/watcher"
)

// runDashboard starts ctrl with its refresh triggers and blocks until ctx
// is done or serve returns. A nil serve just waits for ctx.
//
// Triggers wired here: SIGUSR1, changes to the feed file when
// source.watch_file is set, and desktop alerts when notify.enabled is set.
func runDashboard(ctx context.Context, cfg *config.Config, ctrl *refresh.Controller, log logger.Logger, serve func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Notify.Enabled {
		go notify.New(cfg.Notify.AppName, log).Run(ctx, ctrl.Updates())
	}

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("failed to start refresh controller: %w", err)
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.Error("failed to close refresh controller", "error", err)
		}
	}()

	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	defer signal.Stop(usr1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-usr1:
				log.Info("manual refresh requested", "signal", "SIGUSR1")
				ctrl.Trigger()
			}
		}
	}()

	if cfg.Source.WatchFile && cfg.Source.File != "" {
		w, err := startFeedWatcher(ctx, cfg, ctrl, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Error("failed to close watcher", "error", err)
			}
		}()
	}

	if serve == nil {
		<-ctx.Done()
		return nil
	}
	return serve(ctx)
}

// startFeedWatcher triggers a refresh cycle whenever the feed file changes.
func startFeedWatcher(ctx context.Context, cfg *config.Config, ctrl *refresh.Controller, log logger.Logger) (watcher.Watcher, error) {
	w, err := watcher.New(watcher.Config{
		DebounceInterval: cfg.Source.WatchDebounce,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize watcher: %w", err)
	}

	if err := w.Start(ctx, []string{cfg.Source.File}); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.Source.File, err)
	}

	go watcher.Forward(ctx, w, func(ev watcher.Event) {
		log.Debug("feed file changed", "path", ev.Path, "op", ev.Op)
		ctrl.Trigger()
	})

	go func() {
		errs := w.Errors()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errs:
				if !ok {
					return
				}
				log.Warn("feed watcher error", "error", err)
			}
		}
	}()

	return w, nil
}
