// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/invowk/tarsh/internal/vfs"
)

const (
	treeBranch = "├── "
	treeLast   = "└── "
	treePipe   = "│   "
	treeBlank  = "    "
)

// treeCommand draws a directory hierarchy.
type treeCommand struct {
	baseCommand
}

func newTreeCommand() *treeCommand {
	return &treeCommand{
		baseCommand: baseCommand{
			name:     "tree",
			synopsis: "List the contents of a directory as a tree.",
			usage:    "tree [DIR]",
		},
	}
}

// Usage returns the help text.
func (c *treeCommand) Usage() string { return c.usageText(nil) }

// Run executes the tree command.
func (c *treeCommand) Run(_ context.Context, env *Env, args []string) error {
	operands, help, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	target := "."
	switch len(operands) {
	case 0:
	case 1:
		target = operands[0]
	default:
		return &CommandError{Command: c.name, Err: ErrTooManyArguments}
	}

	dir, err := vfs.ResolveDir(env.Cwd(), target)
	if err != nil {
		return &CommandError{Command: c.name, Path: target, Err: pathCause(err)}
	}

	fmt.Fprintln(env.Stdout, target)
	var dirs, files int
	drawTree(env.Stdout, dir, "", &dirs, &files)
	_, err = fmt.Fprintf(env.Stdout, "\n%s, %s\n", plural(dirs, "directory", "directories"), plural(files, "file", "files"))
	return err
}

func drawTree(w io.Writer, dir *vfs.Directory, prefix string, dirs, files *int) {
	children := dir.Children()
	for i, child := range children {
		branch, indent := treeBranch, treePipe
		if i == len(children)-1 {
			branch, indent = treeLast, treeBlank
		}
		fmt.Fprintln(w, prefix+branch+child.Name())
		sub, ok := child.(*vfs.Directory)
		if !ok {
			*files++
			continue
		}
		*dirs++
		drawTree(w, sub, prefix+indent, dirs, files)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
