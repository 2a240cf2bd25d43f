// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/invowk/tarsh/internal/prompt"
	"github.com/invowk/tarsh/internal/shell"
)

// argLines feeds command-line operands to a session one per line.
type argLines struct {
	lines []string
}

func (a *argLines) ReadLine(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(a.lines) == 0 {
		return "", io.EOF
	}
	line := a.lines[0]
	a.lines = a.lines[1:]
	return line, nil
}

// newRunCommand creates the `tarsh run` command.
func newRunCommand(app *App, opts *rootOptions) *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "run [LINE...]",
		Short: "Run command lines non-interactively",
		Long: `Run command lines against the archive and exit.

Each operand is executed as one line, in order. With --script the lines are
read from a file instead, or from stdin when the file is "-". Execution stops
at the first exit command, whose status becomes the process status; otherwise
the status of the last line is used.

Examples:
  tarsh run pwd 'cd /etc' 'cat hostname'
  tarsh run --script commands.txt
  echo 'ls -l' | tarsh run --script -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if script != "" && len(args) > 0 {
				return errors.New("command lines and --script cannot be combined")
			}
			return runLines(cmd, app, opts, script, args)
		},
	}

	cmd.Flags().StringVarP(&script, "script", "s", "", `file to read command lines from ("-" for stdin)`)

	return cmd
}

func runLines(cmd *cobra.Command, app *App, opts *rootOptions, script string, args []string) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return app.fail(err, nil, opts.verbose)
	}
	logger := newLogger(app.stderr, cfg.UI.Verbose)

	var lines shell.LineSource = &argLines{lines: args}
	switch script {
	case "":
	case "-":
		lines = prompt.NewScanner(app.stdin)
	default:
		f, err := os.Open(script)
		if err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("open script: %w", err)}
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("script close failed", "path", script, "error", err)
			}
		}()
		lines = prompt.NewScanner(f)
	}

	sess, actions, err := app.openSession(ctx, cfg, logger)
	if err != nil {
		return app.fail(err, cfg, cfg.UI.Verbose)
	}
	return app.runSession(ctx, sess, actions, lines, logger)
}
