// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

type (
	// Command is a shell builtin.
	Command interface {
		// Name returns the command name (e.g., "ls", "cd").
		Name() string

		// Synopsis returns a one-line description shown by help.
		Synopsis() string

		// Run executes the command. args[0] is the command name and
		// args[1:] are the arguments.
		Run(ctx context.Context, env *Env, args []string) error

		// Usage returns the full help text, including flags.
		Usage() string
	}

	// baseCommand carries the static description shared by every builtin.
	baseCommand struct {
		name     string
		synopsis string
		// usage is the invocation line without the "Usage: " prefix.
		usage string
	}

	// bindFunc registers command flags on a flag set.
	bindFunc func(fs *pflag.FlagSet)
)

// Name returns the command name.
func (c *baseCommand) Name() string { return c.name }

// Synopsis returns the one-line description.
func (c *baseCommand) Synopsis() string { return c.synopsis }

// newFlagSet returns a silent flag set with --help and the flags registered by bind.
func (c *baseCommand) newFlagSet(bind bindFunc) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	if bind != nil {
		bind(fs)
	}
	help := fs.Bool("help", false, "show this help message and exit")
	return fs, help
}

// parse parses args[1:]. It returns the operands and whether --help was given.
// Parse failures are returned as *UsageError.
func (c *baseCommand) parse(args []string, bind bindFunc) ([]string, bool, error) {
	fs, help := c.newFlagSet(bind)
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return nil, false, &UsageError{Command: c.name, Err: err}
	}
	return fs.Args(), *help, nil
}

// usageText renders the help text for the flags registered by bind.
func (c *baseCommand) usageText(bind bindFunc) string {
	fs, _ := c.newFlagSet(bind)

	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(c.usage)
	b.WriteString("\n")
	b.WriteString(c.synopsis)
	b.WriteString("\n\nOptions:\n")
	b.WriteString(fs.FlagUsages())
	return b.String()
}

// printUsage writes the help text of cmd to the environment's Stdout.
func printUsage(env *Env, cmd Command) error {
	_, err := io.WriteString(env.Stdout, cmd.Usage())
	return err
}
