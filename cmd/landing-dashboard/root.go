package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xmhha/landing-dashboard/pkg/config"
	"github.com/0xmhha/landing-dashboard/pkg/daykey"
	"github.com/0xmhha/landing-dashboard/pkg/display"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/refresh"
	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/source"
)

// app carries the global flags and output streams shared by all commands.
type app struct {
	configPath string
	out        io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "landing-dashboard",
		Short: "Live dashboard of landing page responses",
		Long: `landing-dashboard fetches the landing page responses feed, counts responses
per calendar day and keeps the dashboard up to date.

Examples:
  landing-dashboard watch                       # Live terminal dashboard
  landing-dashboard serve --listen :9090        # HTML chart page and JSON API
  landing-dashboard once --format json          # Single refresh, printed as JSON
  landing-dashboard --config ./dash.yaml watch  # Use a specific config file
  landing-dashboard config init                 # Write the default config file`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetVersionTemplate("landing-dashboard {{.Version}}\n")

	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"path to configuration file")

	root.AddCommand(
		a.newWatchCmd(),
		a.newServeCmd(),
		a.newOnceCmd(),
		a.newConfigCmd(),
	)

	return root
}

// loadConfig loads the configuration selected by --config.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// newNormalizer builds the day normalizer for the configured timezone.
func newNormalizer(cfg *config.Config) (*daykey.Normalizer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Display.Timezone, err)
	}
	return daykey.New(loc), nil
}

func displayConfig(cfg *config.Config, format display.Format) display.Config {
	return display.Config{
		Format:  format,
		Color:   cfg.Display.ColorEnabled,
		MaxRows: cfg.Display.MaxRows,
	}
}

// newController wires a refresh controller from the configuration.
func newController(cfg *config.Config, factory sink.Factory, log logger.Logger) (*refresh.Controller, error) {
	norm, err := newNormalizer(cfg)
	if err != nil {
		return nil, err
	}

	ctrl, err := refresh.New(refresh.Config{
		Interval:     cfg.Refresh.Interval,
		WaitInterval: cfg.Refresh.WaitInterval,
		WaitAttempts: cfg.Refresh.WaitAttempts,
	}, source.FromConfig(cfg.Source), factory, log, refresh.WithNormalizer(norm))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize refresh controller: %w", err)
	}
	return ctrl, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
