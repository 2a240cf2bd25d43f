// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"strings"
)

// echoCommand writes its arguments. Anything but a lone --help is echoed verbatim.
type echoCommand struct {
	baseCommand
}

func newEchoCommand() *echoCommand {
	return &echoCommand{
		baseCommand: baseCommand{
			name:     "echo",
			synopsis: "Echo the STRING(s) to standard output.",
			usage:    "echo [STRING...]",
		},
	}
}

// Usage returns the help text.
func (c *echoCommand) Usage() string { return c.usageText(nil) }

// Run executes the echo command.
func (c *echoCommand) Run(_ context.Context, env *Env, args []string) error {
	var words []string
	if len(args) > 1 {
		words = args[1:]
	}
	if len(words) == 1 && words[0] == "--help" {
		return printUsage(env, c)
	}
	_, err := fmt.Fprintln(env.Stdout, strings.Join(words, " "))
	return err
}
