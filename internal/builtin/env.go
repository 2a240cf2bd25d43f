// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"io"
	"time"

	"github.com/invowk/tarsh/internal/vfs"
)

type (
	// Clock supplies the current time to time-dependent commands.
	Clock interface {
		Now() time.Time
	}

	// Env is the state a command runs against.
	Env struct {
		// Stdout receives command output.
		Stdout io.Writer
		// Stderr receives per-operand diagnostics.
		Stderr io.Writer
		// User and Host identify the session.
		User string
		Host string
		// Clock defaults to the system clock when nil.
		Clock Clock

		cwd *vfs.Directory
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time { return time.Now() }

// NewEnv returns an Env positioned at cwd that discards all output.
func NewEnv(cwd *vfs.Directory) *Env {
	return &Env{
		Stdout: io.Discard,
		Stderr: io.Discard,
		cwd:    cwd,
	}
}

// Cwd returns the current directory.
func (e *Env) Cwd() *vfs.Directory { return e.cwd }

// Chdir moves the cursor to dir.
func (e *Env) Chdir(dir *vfs.Directory) { e.cwd = dir }

// Now returns the time according to the environment's clock.
func (e *Env) Now() time.Time {
	if e.Clock == nil {
		return systemClock{}.Now()
	}
	return e.Clock.Now()
}

// report writes a "command: message" diagnostic to Stderr.
func (e *Env) report(err error) {
	fmt.Fprintln(e.Stderr, err)
}
