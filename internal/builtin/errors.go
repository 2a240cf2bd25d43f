// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/invowk/tarsh/internal/vfs"
)

var (
	// ErrTooManyArguments is returned when a command receives more operands than it accepts.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrIsADirectory is returned when a file was required but a directory was found.
	ErrIsADirectory = errors.New("is a directory")
	// ErrNumericArgument is returned by exit for a non-numeric status.
	ErrNumericArgument = errors.New("numeric argument required")
)

type (
	// CommandError is a command failure, optionally about one operand.
	// Err is usually one of the vfs or builtin sentinels.
	CommandError struct {
		Command string
		Path    string
		Err     error
	}

	// UsageError reports arguments a command could not parse.
	UsageError struct {
		Command string
		Err     error
	}

	// NotFoundError is returned by Registry.Run for an unknown command name.
	NotFoundError struct {
		Name string
	}

	// StatusError carries the exit status of a command that already
	// reported its failures on Stderr.
	StatusError struct {
		Code int
	}

	// ExitRequest is returned by exit to end the session with Code.
	// Err, when set, describes why the requested status was replaced.
	ExitRequest struct {
		Code int
		Err  error
	}
)

// Error implements the error interface for CommandError.
func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Command)
	b.WriteString(": ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(describe(e.Err))
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *CommandError) Unwrap() error { return e.Err }

// Error implements the error interface for UsageError.
func (e *UsageError) Error() string {
	return e.Command + ": " + e.Err.Error() + "\nTry 'help " + e.Command + "' for more information."
}

// Unwrap returns the underlying parse error.
func (e *UsageError) Unwrap() error { return e.Err }

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return e.Name + ": command not found"
}

// Error implements the error interface for StatusError.
func (e *StatusError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// Error implements the error interface for ExitRequest.
func (e *ExitRequest) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit " + strconv.Itoa(e.Code)
}

// Unwrap returns the reason the status was replaced, if any.
func (e *ExitRequest) Unwrap() error { return e.Err }

// ExitStatus maps an error returned by a command to a shell exit status:
// 0 for nil, 2 for usage errors, 127 for unknown commands and 1 otherwise.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var (
		status   *StatusError
		exit     *ExitRequest
		usage    *UsageError
		notFound *NotFoundError
	)
	switch {
	case errors.As(err, &exit):
		return exit.Code
	case errors.As(err, &status):
		return status.Code
	case errors.As(err, &usage):
		return 2
	case errors.As(err, &notFound):
		return 127
	default:
		return 1
	}
}

// describe renders err for a diagnostic. Filesystem errors are capitalized
// the way shells print errno strings ("No such file or directory").
func describe(err error) string {
	msg := err.Error()
	if !errors.Is(err, vfs.ErrNotFound) && !errors.Is(err, vfs.ErrNotADirectory) && !errors.Is(err, ErrIsADirectory) {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// statusFor returns a *StatusError with code when failed is true, nil otherwise.
func statusFor(failed bool, code int) error {
	if !failed {
		return nil
	}
	return &StatusError{Code: code}
}

// pathCause returns the sentinel wrapped by a *vfs.PathError, or err itself.
func pathCause(err error) error {
	var pe *vfs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
