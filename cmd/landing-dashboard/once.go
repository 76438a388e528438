package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/display"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/refresh"
	"github.com/0xmhha/landing-dashboard/pkg/source"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// onceOptions holds the once command flags.
type onceOptions struct {
	format  string
	compact bool
}

func (a *app) newOnceCmd() *cobra.Command {
	opts := &onceOptions{}

	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single refresh cycle and print the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOnce(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"output format (table, json, simple; default from config)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false,
		"compact output")

	return cmd
}

func (a *app) runOnce(ctx context.Context, opts *onceOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	format := display.Format(cfg.Display.Format)
	if opts.format != "" {
		format = display.Format(opts.format)
	}
	switch format {
	case display.FormatTable, display.FormatJSON, display.FormatSimple:
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	log := newLogger(cfg)
	norm, err := newNormalizer(cfg)
	if err != nil {
		return err
	}

	src := source.FromConfig(cfg.Source)
	body, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", src.Location(), err)
	}

	records, err := parser.DecodeFeed(body)
	if err != nil {
		return fmt.Errorf("failed to decode feed: %w", err)
	}

	agg := aggregator.New(aggregator.Config{Normalizer: norm, Logger: log})
	day, err := agg.Collect(records, aggregator.DimDay)
	if err != nil {
		return fmt.Errorf("failed to aggregate records: %w", err)
	}
	reasons, err := agg.AggregateBy(records, aggregator.DimReason)
	if err != nil {
		return fmt.Errorf("failed to aggregate records: %w", err)
	}

	snap := refresh.Snapshot{
		State:     refresh.Ready,
		Series:    day.Series,
		Reasons:   reasons,
		Stats:     stats.Compute(day.Series),
		Summary:   stats.Summarize(records, norm),
		Records:   records,
		UpdatedAt: time.Now(),
		Excluded:  day.Excluded,
		Dropped:   day.Dropped,
	}

	dcfg := displayConfig(cfg, format)
	dcfg.Compact = opts.compact
	dcfg.Color = dcfg.Color && isTerminal(a.out)

	return display.New(dcfg).FormatView(a.out, display.ViewFromFrame(snap.Frame()))
}
