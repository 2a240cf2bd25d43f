// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/tarsh/internal/config"
)

// newConfigCommand creates the `tarsh config` command tree.
// Every subcommand sees the configuration with flag overrides applied.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect tarsh configuration",
		Long: `Inspect tarsh configuration.

Configuration is read from config.yaml, config.yml or config.toml in the
current directory, then in:
  - Linux: ~/.config/tarsh/
  - macOS: ~/Library/Application Support/tarsh/
  - Windows: %APPDATA%\tarsh\

Every key can be overridden with a TARSH_ environment variable, for
example TARSH_SYSTEM_DIRECTORY or TARSH_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), opts)
			if err != nil {
				return app.fail(err, nil, opts.verbose)
			}
			showConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), opts)
			if err != nil {
				return app.fail(err, nil, opts.verbose)
			}
			return showConfigPath(cmd.OutOrStdout(), app, cfg)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), opts)
			if err != nil {
				return app.fail(err, nil, opts.verbose)
			}

			content, err := config.GenerateTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(not set)")

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	value := func(s string) string {
		if s == "" {
			return unset
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("username"), value(cfg.Username.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("hostname"), value(cfg.Hostname.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("system_directory"), value(cfg.SystemDirectory))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("log_file"), value(cfg.LogFile))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Color)))
}

// showConfigPath prints the file the configuration was read from, or the
// default location when none was found.
func showConfigPath(w io.Writer, app *App, cfg *config.Config) error {
	if cfg.Source != "" {
		fmt.Fprintln(w, cfg.Source)
		return nil
	}

	dir := app.configOptions.ConfigDirPath
	if dir == "" {
		var err error
		dir, err = config.ConfigDir()
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%s %s\n",
		filepath.Join(dir, config.ConfigFileName+".yaml"),
		SubtitleStyle.Render("(not found)"))
	return nil
}
