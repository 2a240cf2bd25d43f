// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"strconv"
)

// exitCommand ends the session.
type exitCommand struct {
	baseCommand
}

func newExitCommand() *exitCommand {
	return &exitCommand{
		baseCommand: baseCommand{
			name:     "exit",
			synopsis: "Exit the shell with a status of N.",
			usage:    "exit [N]",
		},
	}
}

// Usage returns the help text.
func (c *exitCommand) Usage() string { return c.usageText(nil) }

// Run returns an *ExitRequest. A non-numeric N requests status 2.
// With more than one operand the session continues.
func (c *exitCommand) Run(_ context.Context, env *Env, args []string) error {
	operands, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	switch len(operands) {
	case 0:
		return &ExitRequest{}
	case 1:
	default:
		return &CommandError{Command: c.name, Err: ErrTooManyArguments}
	}

	code, err := strconv.Atoi(operands[0])
	if err != nil || code < 0 {
		return &ExitRequest{
			Code: 2,
			Err:  &CommandError{Command: c.name, Path: operands[0], Err: ErrNumericArgument},
		}
	}
	return &ExitRequest{Code: code & 0xff}
}
