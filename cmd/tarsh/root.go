// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/tarsh/internal/issue"
	"github.com/invowk/tarsh/internal/prompt"
	"github.com/invowk/tarsh/internal/shell"
)

// interruptedExitCode is reported when the session is stopped by a signal.
const interruptedExitCode = 130

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tarsh",
		Short: "A shell over a read-only filesystem loaded from an archive",
		Long: TitleStyle.Render("tarsh") + SubtitleStyle.Render(" - a shell over a read-only archive filesystem") + `

tarsh loads a tar, tar.gz, tar.zst or zip archive into memory and lets you
explore it with familiar commands: cd, ls, cat, find, tree and more.
Nothing is ever written back to the archive.

` + SubtitleStyle.Render("Examples:") + `
  tarsh --archive system.tar.gz    Start an interactive session
  tarsh run 'ls -l' 'cat notes.txt' Run lines and exit
  tarsh archive system.tar.gz      List archive members
  tarsh config show                Show current configuration`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, app, opts)
		},
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/tarsh/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&opts.user, "user", "", "user name shown in the prompt and action log")
	flags.StringVar(&opts.host, "host", "", "host name shown in the prompt")
	flags.StringVarP(&opts.archive, "archive", "a", "", "archive the filesystem is loaded from")
	flags.StringVar(&opts.logFile, "log-file", "", "CSV file every command is recorded to")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable styled output")

	rootCmd.AddCommand(newRunCommand(app, opts))
	rootCmd.AddCommand(newArchiveCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// runInteractive starts a session reading from the terminal, or line by
// line from stdin when it is not a terminal.
func runInteractive(cmd *cobra.Command, app *App, opts *rootOptions) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return app.fail(err, nil, opts.verbose)
	}
	logger := newLogger(app.stderr, cfg.UI.Verbose)

	sess, actions, err := app.openSession(ctx, cfg, logger)
	if err != nil {
		return app.fail(err, cfg, cfg.UI.Verbose)
	}

	var lines shell.LineSource
	if f, ok := app.stdin.(*os.File); ok && prompt.IsTerminal(f) {
		editor := prompt.NewInteractive(f, app.stdout, nil)
		if cfg.UI.Color {
			editor.PromptStyle = PromptStyle
		}
		lines = editor
		logger.Debug("interactive mode")
	} else {
		lines = prompt.NewScanner(app.stdin)
		logger.Debug("reading commands from stdin")
	}

	return app.runSession(ctx, sess, actions, lines, logger)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with the status it produced.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)

	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		os.Exit(exitErr.Code)
	case err != nil:
		os.Exit(1)
	}
	if code := app.ExitCode(); code != 0 {
		os.Exit(code)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method, which shows the full chain in
// verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
