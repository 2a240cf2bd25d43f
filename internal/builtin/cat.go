// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bytes"
	"context"
	"fmt"

	"github.com/invowk/tarsh/internal/vfs"
)

// TextExtension marks files whose content cat prints as UTF-8 text.
const TextExtension = ".txt"

// catCommand prints file contents.
type catCommand struct {
	baseCommand
}

func newCatCommand() *catCommand {
	return &catCommand{
		baseCommand: baseCommand{
			name:     "cat",
			synopsis: "Concatenate FILE(s) to standard output.",
			usage:    "cat [FILE...]",
		},
	}
}

// Usage returns the help text.
func (c *catCommand) Usage() string { return c.usageText(nil) }

// Run executes the cat command. Files with the .txt extension are written as
// text; any other content is written as a quoted byte string. Without
// operands the current directory is the operand, which is reported as a
// directory.
func (c *catCommand) Run(_ context.Context, env *Env, args []string) error {
	operands, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	if len(operands) == 0 {
		operands = []string{env.Cwd().AbsPath()}
	}

	failed := false
	for _, p := range operands {
		node, ok := vfs.Resolve(env.Cwd(), p)
		if !ok {
			env.report(&CommandError{Command: c.name, Path: p, Err: vfs.ErrNotFound})
			failed = true
			continue
		}
		file, ok := node.(*vfs.File)
		if !ok {
			env.report(&CommandError{Command: c.name, Path: p, Err: ErrIsADirectory})
			failed = true
			continue
		}
		if err := writeContent(env, file); err != nil {
			return err
		}
	}
	return statusFor(failed, 1)
}

func writeContent(env *Env, f *vfs.File) error {
	content := f.Content()
	if f.Extension() != TextExtension {
		_, err := fmt.Fprintf(env.Stdout, "%q\n", content)
		return err
	}
	if _, err := env.Stdout.Write(content); err != nil {
		return err
	}
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		_, err := fmt.Fprintln(env.Stdout)
		return err
	}
	return nil
}
