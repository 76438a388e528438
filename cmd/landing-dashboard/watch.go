package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/landing-dashboard/pkg/display"
)

// watchOptions holds the watch command flags.
type watchOptions struct {
	format   string
	interval time.Duration
}

func (a *app) newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard in the terminal",
		Long: `Live dashboard in the terminal.

The dashboard is redrawn after every refresh cycle. Send SIGUSR1 to force a
refresh; with source.watch_file set, edits to the feed file do the same.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "table",
		"output format (table, simple)")
	cmd.Flags().DurationVar(&opts.interval, "refresh", 0,
		"refresh interval, e.g. 5s (default from config)")

	return cmd
}

func (a *app) runWatch(ctx context.Context, opts *watchOptions) error {
	format := display.Format(opts.format)
	if format != display.FormatTable && format != display.FormatSimple {
		return fmt.Errorf("unsupported watch format: %s", opts.format)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.interval > 0 {
		cfg.Refresh.Interval = opts.interval
	}

	log := newLogger(cfg)

	ctrl, err := newController(cfg, display.Factory(a.out, displayConfig(cfg, format)), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDashboard(ctx, cfg, ctrl, log, nil)
}
