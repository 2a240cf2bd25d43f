// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"

	"github.com/invowk/tarsh/internal/vfs"
)

// cdCommand moves the cursor.
type cdCommand struct {
	baseCommand
}

func newCdCommand() *cdCommand {
	return &cdCommand{
		baseCommand: baseCommand{
			name:     "cd",
			synopsis: "Change the shell working directory.",
			usage:    "cd [DIR]",
		},
	}
}

// Usage returns the help text.
func (c *cdCommand) Usage() string { return c.usageText(nil) }

// Run executes the cd command. Without DIR the cursor returns to the root.
func (c *cdCommand) Run(_ context.Context, env *Env, args []string) error {
	operands, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	switch len(operands) {
	case 0:
		env.Chdir(env.Cwd().Root())
		return nil
	case 1:
	default:
		return &CommandError{Command: c.name, Err: ErrTooManyArguments}
	}

	target := operands[0]
	node, ok := vfs.Resolve(env.Cwd(), target)
	if !ok {
		return &CommandError{Command: c.name, Path: target, Err: vfs.ErrNotFound}
	}
	dir, ok := node.(*vfs.Directory)
	if !ok {
		return &CommandError{Command: c.name, Path: target, Err: vfs.ErrNotADirectory}
	}
	env.Chdir(dir)
	return nil
}
