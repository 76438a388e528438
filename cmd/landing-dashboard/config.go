package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/landing-dashboard/pkg/config"
)

var errConfigExists = errors.New("configuration file already exists")

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management (show, path, init)",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow(format)
		},
	}
	show.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")

	path := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigPath()
		},
	}

	var output string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(output, force)
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "",
		"output path (default: ~/.config/landing-dashboard/config.yaml)")
	initCmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

// runConfigShow prints the merged configuration.
func (a *app) runConfigShow(format string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = fmt.Fprintf(a.out, "# Current Configuration\n# Source: %s\n\n%s", a.configSource(), data)
		return err
	default:
		return fmt.Errorf("unsupported config format: %s", format)
	}
}

// runConfigPath lists the files the loader looks at, in order.
func (a *app) runConfigPath() error {
	fmt.Fprintln(a.out, "Configuration file search paths (in order of precedence):")
	fmt.Fprintln(a.out)

	for i, p := range a.configCandidates() {
		state := "not found"
		if _, err := os.Stat(p); err == nil {
			state = "found"
		}
		fmt.Fprintf(a.out, "  %d. %s [%s]\n", i+1, p, state)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Environment file: %s\n", config.DefaultEnvFile)
	fmt.Fprintf(a.out, "Active configuration: %s\n", a.configSource())
	return nil
}

// runConfigInit writes the defaults to output.
func (a *app) runConfigInit(output string, force bool) error {
	if output == "" {
		output = config.DefaultConfigPath()
	}

	if _, err := os.Stat(output); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", errConfigExists, output)
	}

	if err := config.Save(config.Default(), output); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(a.out, "Default configuration written to: %s\n", output)
	return nil
}

// configCandidates returns the paths the loader considers.
func (a *app) configCandidates() []string {
	if a.configPath != "" {
		return []string{a.configPath}
	}
	return []string{"./config.yaml", config.DefaultConfigPath()}
}

// configSource returns the path of the active configuration file.
func (a *app) configSource() string {
	for _, p := range a.configCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "defaults (no config file found)"
}
