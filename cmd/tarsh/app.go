// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/tarsh/internal/actionlog"
	"github.com/invowk/tarsh/internal/archive"
	"github.com/invowk/tarsh/internal/config"
	"github.com/invowk/tarsh/internal/issue"
	"github.com/invowk/tarsh/internal/shell"
	"github.com/invowk/tarsh/internal/vfs"
)

type (
	// Dependencies configures NewApp. Nil fields get process defaults.
	Dependencies struct {
		Config config.Provider
		// ConfigOptions is the base of every config load. The --config flag
		// overrides its ConfigFilePath.
		ConfigOptions config.LoadOptions
		Clock         actionlog.Clock
		Stdin         io.Reader
		Stdout        io.Writer
		Stderr        io.Writer
	}

	// App holds the services shared by the root command and its subcommands.
	App struct {
		Config config.Provider

		configOptions config.LoadOptions
		clock         actionlog.Clock
		stdin         io.Reader
		stdout        io.Writer
		stderr        io.Writer

		// exitCode is the status a finished shell session asked for.
		exitCode int
	}

	// rootOptions holds the persistent flag values.
	rootOptions struct {
		configFile string
		verbose    bool
		user       string
		host       string
		archive    string
		logFile    string
		noColor    bool
	}
)

var errArchiveNotConfigured = errors.New("no system archive configured")

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		Config:        deps.Config,
		configOptions: deps.ConfigOptions,
		clock:         deps.Clock,
		stdin:         deps.Stdin,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
	}
}

// ExitCode returns the status requested by the last shell session.
func (a *App) ExitCode() int { return a.exitCode }

// loadConfig loads the configuration and applies flag overrides on top of it.
func (a *App) loadConfig(ctx context.Context, opts *rootOptions) (*config.Config, error) {
	loadOpts := a.configOptions
	if opts.configFile != "" {
		loadOpts.ConfigFilePath = opts.configFile
	}

	cfg, err := a.Config.Load(ctx, loadOpts)
	if err != nil {
		return nil, err
	}

	if opts.user != "" {
		cfg.Username = config.Username(opts.user)
	}
	if opts.host != "" {
		cfg.Hostname = config.Hostname(opts.host)
	}
	if opts.archive != "" {
		cfg.SystemDirectory = opts.archive
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if opts.verbose {
		cfg.UI.Verbose = true
	}
	if opts.noColor {
		cfg.UI.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("apply command-line overrides").
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("User and host names must be non-empty and contain no whitespace").
			Wrap(err).
			BuildError()
	}
	return cfg, nil
}

// newLogger returns the diagnostic logger. Verbose mode shows debug records.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "tarsh",
		Level:  level,
	})
}

// loadTree reads the configured archive and builds the virtual filesystem.
func loadTree(ctx context.Context, cfg *config.Config, logger *log.Logger) (*vfs.Directory, error) {
	if cfg.SystemDirectory == "" {
		return nil, archiveNotConfigured()
	}

	entries, err := archive.Load(ctx, cfg.SystemDirectory, logger)
	if err != nil {
		return nil, archiveError(cfg.SystemDirectory, err)
	}

	root, report := vfs.BuildWithReport(entries)
	for _, skipped := range report.Skipped {
		logger.Debug("entry skipped", "path", skipped.Path, "reason", skipped.Err)
	}
	logger.Debug("tree built",
		"files", report.Files,
		"directories", report.Directories,
		"skipped", len(report.Skipped),
	)
	return root, nil
}

// archiveNotConfigured reports that no archive path was given anywhere.
func archiveNotConfigured() error {
	return issue.NewErrorContext().
		WithOperation("load system archive").
		WithIssue(issue.ArchiveNotConfiguredId).
		WithSuggestions(
			"Pass --archive PATH",
			"Set system_directory in the config file",
			"Export TARSH_SYSTEM_DIRECTORY",
		).
		Wrap(errArchiveNotConfigured).
		BuildError()
}

// archiveError attaches guidance to a failure reading the archive at path.
func archiveError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.NewErrorContext().
			WithOperation("load system archive").
			WithResource(path).
			WithIssue(issue.ArchiveNotFoundId).
			WithSuggestion("Check the path given by --archive or system_directory").
			Wrap(err).
			BuildError()
	case errors.Is(err, archive.ErrCorrupt):
		return issue.NewErrorContext().
			WithOperation("load system archive").
			WithResource(path).
			WithIssue(issue.ArchiveCorruptId).
			WithSuggestion("Supported formats are tar, tar.gz, tar.zst and zip").
			Wrap(err).
			BuildError()
	default:
		return issue.WrapWithContext(err, "load system archive", path)
	}
}

// openSession builds the tree and returns a session over it together with
// the action log the caller must close.
func (a *App) openSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*shell.Session, *actionlog.Logger, error) {
	root, err := loadTree(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var actions *actionlog.Logger
	if cfg.LogFile != "" {
		actions, err = actionlog.Open(cfg.LogFile, a.clock)
		if err != nil {
			return nil, nil, issue.NewErrorContext().
				WithOperation("open action log").
				WithResource(cfg.LogFile).
				WithIssue(issue.ActionLogUnavailableId).
				WithSuggestion("Point log_file at a writable location or leave it empty").
				Wrap(err).
				BuildError()
		}
		logger.Debug("action log opened", "path", cfg.LogFile)
	}

	sess := shell.New(root, shell.Options{
		User:      cfg.Username.String(),
		Host:      cfg.Hostname.String(),
		ActionLog: actions,
		Logger:    logger,
		Clock:     a.clock,
		Stdout:    a.stdout,
		Stderr:    a.stderr,
	})
	return sess, actions, nil
}

// runSession runs sess over lines and records the status it ends with.
func (a *App) runSession(ctx context.Context, sess *shell.Session, actions *actionlog.Logger, lines shell.LineSource, logger *log.Logger) error {
	defer func() {
		if err := actions.Close(); err != nil {
			logger.Warn("action log close failed", "error", err)
		}
	}()

	code, err := sess.Run(ctx, lines)
	if errors.Is(err, context.Canceled) {
		a.exitCode = interruptedExitCode
		return nil
	}
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("read command line: %w", err)}
	}
	a.exitCode = code
	return nil
}

// fail writes the suggestions and issue guidance attached to err on stderr
// and wraps err for exit. The message itself is printed by the caller of
// the command tree.
func (a *App) fail(err error, cfg *config.Config, verboseMode bool) error {
	color := cfg == nil || cfg.UI.Color

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		for _, suggestion := range ae.Suggestions {
			fmt.Fprintln(a.stderr, SubtitleStyle.Render("  • "+suggestion))
		}
	}
	if verboseMode {
		fmt.Fprintln(a.stderr, VerboseStyle.Render(formatErrorForDisplay(err, true)))
	}
	if guidance, ok := issue.GuidanceFor(err); ok {
		style := "notty"
		if color {
			style = "dark"
		}
		if rendered, renderErr := guidance.Render(style); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	return &ExitError{Code: 1, Err: err}
}
