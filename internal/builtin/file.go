// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/invowk/tarsh/internal/vfs"
)

// fileCommand reports the content type of each operand.
type fileCommand struct {
	baseCommand
}

func newFileCommand() *fileCommand {
	return &fileCommand{
		baseCommand: baseCommand{
			name:     "file",
			synopsis: "Determine the type of each FILE from its content.",
			usage:    "file FILE...",
		},
	}
}

// Usage returns the help text.
func (c *fileCommand) Usage() string { return c.usageText(nil) }

// Run executes the file command.
func (c *fileCommand) Run(_ context.Context, env *Env, args []string) error {
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
		fmt.Fprintf(env.Stdout, "%s: %s\n", p, ContentType(node))
	}
	return statusFor(failed, 1)
}

// ContentType returns "directory" for directories and the detected MIME type
// of the payload for files.
func ContentType(n vfs.Node) string {
	f, ok := n.(*vfs.File)
	if !ok {
		return "directory"
	}
	return mimetype.Detect(f.Content()).String()
}
