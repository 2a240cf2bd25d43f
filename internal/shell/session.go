// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/invowk/tarsh/internal/actionlog"
	"github.com/invowk/tarsh/internal/builtin"
	"github.com/invowk/tarsh/internal/vfs"
)

// SyntaxErrorStatus is the status of a line that could not be split into words.
const SyntaxErrorStatus = 2

type (
	// Options configures a Session. Zero values are usable: output is
	// discarded, the default registry is used and no actions are logged.
	Options struct {
		User      string
		Host      string
		Registry  *builtin.Registry
		ActionLog *actionlog.Logger
		Logger    *log.Logger
		Clock     builtin.Clock
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// Session is one interactive shell over a built tree.
	Session struct {
		env      *builtin.Env
		registry *builtin.Registry
		actions  *actionlog.Logger
		logger   *log.Logger
		status   int
	}

	// LineSource supplies command lines. ReadLine returns io.EOF when input ends.
	LineSource interface {
		ReadLine(ctx context.Context, prompt string) (string, error)
	}

	// SyntaxError reports a line whose quoting could not be parsed.
	SyntaxError struct {
		Line string
		Err  error
	}
)

// New returns a Session with its cursor at root.
func New(root *vfs.Directory, opts Options) *Session {
	env := builtin.NewEnv(root)
	env.User = opts.User
	env.Host = opts.Host
	env.Clock = opts.Clock
	if opts.Stdout != nil {
		env.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		env.Stderr = opts.Stderr
	}

	registry := opts.Registry
	if registry == nil {
		registry = builtin.DefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Session{
		env:      env,
		registry: registry,
		actions:  opts.ActionLog,
		logger:   logger,
	}
}

// Prompt returns "user@host:/abs/path$ ".
func (s *Session) Prompt() string {
	return fmt.Sprintf("%s@%s:%s$ ", s.env.User, s.env.Host, s.env.Cwd().AbsPath())
}

// Cwd returns the directory the cursor is on.
func (s *Session) Cwd() *vfs.Directory { return s.env.Cwd() }

// Status returns the exit status of the last executed line.
func (s *Session) Status() int { return s.status }

// Execute runs one command line. Command failures are written to Stderr,
// recorded in Status and returned. An *builtin.ExitRequest means the
// session should end.
func (s *Session) Execute(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	words, err := shell.Fields(line, s.lookupVar)
	if err != nil {
		serr := &SyntaxError{Line: line, Err: err}
		s.fail(serr, SyntaxErrorStatus)
		return serr
	}
	if len(words) == 0 {
		return nil
	}

	name := words[0]
	if _, ok := s.registry.Lookup(name); ok {
		if err := s.actions.Record(s.env.User, name, words[1:]); err != nil {
			s.logger.Warn("action log write failed", "command", name, "error", err)
		}
	}

	s.logger.Debug("execute", "command", name, "args", len(words)-1, "cwd", s.env.Cwd().AbsPath())
	err = s.registry.Run(ctx, s.env, words)
	s.status = builtin.ExitStatus(err)

	var exit *builtin.ExitRequest
	var status *builtin.StatusError
	switch {
	case err == nil:
	case errors.As(err, &exit):
		if exit.Err != nil {
			fmt.Fprintln(s.env.Stderr, exit.Err)
		}
	case errors.As(err, &status):
	default:
		fmt.Fprintln(s.env.Stderr, err)
	}
	if err != nil {
		s.logger.Debug("command failed", "command", name, "status", s.status, "error", err)
	}
	return err
}

// Run reads and executes lines until the source is exhausted or exit is
// called. It returns the status of exit, or of the last line at end of input.
func (s *Session) Run(ctx context.Context, lines LineSource) (int, error) {
	for {
		line, err := lines.ReadLine(ctx, s.Prompt())
		if errors.Is(err, io.EOF) {
			return s.status, nil
		}
		if err != nil {
			return s.status, err
		}

		err = s.Execute(ctx, line)
		var exit *builtin.ExitRequest
		if errors.As(err, &exit) {
			s.logger.Debug("session ended", "status", exit.Code)
			return exit.Code, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.status, ctxErr
		}
	}
}

// lookupVar expands the variables a session exposes: USER, HOSTNAME and PWD.
func (s *Session) lookupVar(name string) string {
	switch name {
	case "USER":
		return s.env.User
	case "HOSTNAME":
		return s.env.Host
	case "PWD":
		return s.env.Cwd().AbsPath()
	default:
		return ""
	}
}

func (s *Session) fail(err error, status int) {
	s.status = status
	fmt.Fprintln(s.env.Stderr, err)
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return "tarsh: syntax error: " + e.Err.Error()
}

// Unwrap returns the parser error.
func (e *SyntaxError) Unwrap() error { return e.Err }
