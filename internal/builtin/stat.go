// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"

	"github.com/invowk/tarsh/internal/vfs"
)

// StatTimeLayout is the modification time format of stat.
const StatTimeLayout = "2006-01-02 15:04:05"

// statCommand describes nodes.
type statCommand struct {
	baseCommand
}

func newStatCommand() *statCommand {
	return &statCommand{
		baseCommand: baseCommand{
			name:     "stat",
			synopsis: "Display the name, kind, size and modification time of each FILE.",
			usage:    "stat FILE...",
		},
	}
}

// Usage returns the help text.
func (c *statCommand) Usage() string { return c.usageText(nil) }

// Run executes the stat command.
func (c *statCommand) Run(_ context.Context, env *Env, args []string) error {
	operands, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	failed := false
	for _, p := range operands {
		node, ok := vfs.Resolve(env.Cwd(), p)
		if !ok {
			env.report(&CommandError{Command: c.name, Path: p, Err: vfs.ErrNotFound})
			failed = true
			continue
		}
		kind := "regular file"
		if node.IsDir() {
			kind = "directory"
		}
		name := node.Name()
		if name == "" {
			name = "/"
		}
		fmt.Fprintf(env.Stdout, "  File: %s\n  Kind: %s\n  Size: %d\nModify: %s\n  Path: %s\n",
			name, kind, node.Size(), node.ModTime().Format(StatTimeLayout), node.AbsPath())
	}
	return statusFor(failed, 1)
}

