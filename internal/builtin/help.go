// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// helpCommand lists the registry or prints the usage of one command.
type helpCommand struct {
	baseCommand
	registry *Registry
}

func newHelpCommand(r *Registry) *helpCommand {
	return &helpCommand{
		baseCommand: baseCommand{
			name:     "help",
			synopsis: `List available commands with "help" or detailed help with "help CMD".`,
			usage:    "help [CMD]",
		},
		registry: r,
	}
}

// Usage returns the help text.
func (c *helpCommand) Usage() string { return c.usageText(nil) }

// Run executes the help command.
func (c *helpCommand) Run(_ context.Context, env *Env, args []string) error {
	operands, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help || (len(operands) > 0 && operands[0] == c.name) {
		return printUsage(env, c)
	}

	if len(operands) > 0 {
		name := operands[0]
		cmd, ok := c.registry.Lookup(name)
		if !ok {
			_, err := fmt.Fprintf(env.Stdout, "No help on %s\n", name)
			return err
		}
		return printUsage(env, cmd)
	}

	fmt.Fprintln(env.Stdout, "Available commands:")
	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range c.registry.Names() {
		cmd, _ := c.registry.Lookup(name)
		fmt.Fprintf(tw, "  %s\t%s\n", name, cmd.Synopsis())
	}
	return tw.Flush()
}
