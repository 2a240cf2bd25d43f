// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/pflag"

	"github.com/invowk/tarsh/internal/vfs"
)

type (
	// findCommand walks the tree printing matching paths.
	findCommand struct {
		baseCommand
	}

	findOptions struct {
		name     string
		nodeType string
	}
)

// findLongFlags are accepted with a single dash, as find(1) spells them.
var findLongFlags = []string{"name", "type"}

func newFindCommand() *findCommand {
	return &findCommand{
		baseCommand: baseCommand{
			name:     "find",
			synopsis: "Search for files in a directory hierarchy.",
			usage:    "find [PATH...] [-name PATTERN] [-type f|d]",
		},
	}
}

func (c *findCommand) flags(o *findOptions) bindFunc {
	return func(fs *pflag.FlagSet) {
		fs.StringVar(&o.name, "name", "", "match base names against a glob `PATTERN`")
		fs.StringVar(&o.nodeType, "type", "", "match only files (f) or directories (d)")
	}
}

// Usage returns the help text.
func (c *findCommand) Usage() string { return c.usageText(c.flags(&findOptions{})) }

// Run executes the find command. Without PATH the walk starts at ".".
func (c *findCommand) Run(_ context.Context, env *Env, args []string) error {
	var opts findOptions
	operands, help, err := c.parse(normalizeFindArgs(args), c.flags(&opts))
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	switch opts.nodeType {
	case "", "f", "d":
	default:
		return &UsageError{Command: c.name, Err: fmt.Errorf("unknown argument to -type: %s", opts.nodeType)}
	}
	if opts.name != "" && !doublestar.ValidatePattern(opts.name) {
		return &UsageError{Command: c.name, Err: fmt.Errorf("invalid pattern %q: %w", opts.name, doublestar.ErrBadPattern)}
	}

	if len(operands) == 0 {
		operands = []string{"."}
	}

	failed := false
	for _, p := range operands {
		start, ok := vfs.Resolve(env.Cwd(), p)
		if !ok {
			env.report(&CommandError{Command: c.name, Path: p, Err: vfs.ErrNotFound})
			failed = true
			continue
		}
		err := vfs.Walk(start, func(n vfs.Node, _ int) error {
			if opts.matches(n) {
				_, werr := fmt.Fprintln(env.Stdout, displayPath(p, start, n))
				return werr
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return statusFor(failed, 1)
}

func (o findOptions) matches(n vfs.Node) bool {
	switch o.nodeType {
	case "f":
		if !n.IsFile() {
			return false
		}
	case "d":
		if !n.IsDir() {
			return false
		}
	}
	if o.name == "" {
		return true
	}
	ok, err := doublestar.Match(o.name, n.Name())
	return err == nil && ok
}

// displayPath spells n relative to the expression p that named start.
func displayPath(p string, start, n vfs.Node) string {
	if n == start {
		return p
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(n.AbsPath(), start.AbsPath()), "/")
	if strings.HasSuffix(p, "/") {
		return p + rel
	}
	return p + "/" + rel
}

// normalizeFindArgs rewrites "-name" and "-type" to their pflag spelling.
func normalizeFindArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a
		if i == 0 {
			continue
		}
		for _, long := range findLongFlags {
			if a == "-"+long {
				out[i] = "--" + long
			}
		}
	}
	return out
}
