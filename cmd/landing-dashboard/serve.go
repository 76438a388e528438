package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xmhha/landing-dashboard/pkg/chart"
	"github.com/0xmhha/landing-dashboard/pkg/display"
	"github.com/0xmhha/landing-dashboard/pkg/server"
	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/source"
)

// serveOptions holds the serve command flags.
type serveOptions struct {
	listen   string
	output   string
	terminal bool
}

func (a *app) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart page and JSON API",
		Long: `Serve the chart page and JSON API.

Routes:
  GET  /               chart page
  GET  /api/series     day series and statistics
  GET  /api/records    records of the last successful refresh
  GET  /api/summary    headline figures
  GET  /api/proxy      raw upstream feed
  POST /api/refresh    schedule a refresh now
  POST /api/recreate   rebuild the chart
  GET  /healthz        liveness and controller state`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "",
		"listen address (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"also write the chart page to this file")
	cmd.Flags().BoolVar(&opts.terminal, "terminal", false,
		"also draw the dashboard in the terminal")

	return cmd
}

func (a *app) runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}
	if opts.output != "" {
		cfg.Chart.OutputPath = opts.output
	}

	log := newLogger(cfg)

	pages := chart.NewCurrent(chart.Config{
		Title:      cfg.Chart.Title,
		OutputPath: cfg.Chart.OutputPath,
	})
	factories := []sink.Factory{pages.Factory()}
	if opts.terminal {
		factories = append(factories, display.Factory(a.out, displayConfig(cfg, display.FormatTable)))
	}

	ctrl, err := newController(cfg, sink.MultiFactory(factories...), log)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Listen:          cfg.Server.Listen,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, ctrl, pages, source.FromConfig(cfg.Source), log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDashboard(ctx, cfg, ctrl, log, srv.Run)
}
