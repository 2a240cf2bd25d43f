// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
)

// pwdCommand prints the current directory.
type pwdCommand struct {
	baseCommand
}

func newPwdCommand() *pwdCommand {
	return &pwdCommand{
		baseCommand: baseCommand{
			name:     "pwd",
			synopsis: "Print the name of the current working directory.",
			usage:    "pwd",
		},
	}
}

// Usage returns the help text.
func (c *pwdCommand) Usage() string { return c.usageText(nil) }

// Run executes the pwd command. Operands are ignored.
func (c *pwdCommand) Run(_ context.Context, env *Env, args []string) error {
	_, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}
	_, err = fmt.Fprintln(env.Stdout, env.Cwd().AbsPath())
	return err
}
