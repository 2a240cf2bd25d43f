// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"

	"github.com/invowk/tarsh/internal/vfs"
)

// ModTimeLayout is the modification time format of long listings.
const ModTimeLayout = "Jan 02 15:04:05"

type (
	// lsCommand lists directory contents.
	lsCommand struct {
		baseCommand
	}

	lsOptions struct {
		long bool
	}
)

func newLsCommand() *lsCommand {
	return &lsCommand{
		baseCommand: baseCommand{
			name:     "ls",
			synopsis: "List information about the FILEs (the current directory by default).",
			usage:    "ls [-l] [FILE...]",
		},
	}
}

func (c *lsCommand) flags(o *lsOptions) bindFunc {
	return func(fs *pflag.FlagSet) {
		fs.BoolVarP(&o.long, "long", "l", false, "use a long listing format")
	}
}

// Usage returns the help text.
func (c *lsCommand) Usage() string { return c.usageText(c.flags(&lsOptions{})) }

// Run executes the ls command. Missing operands are reported and skipped;
// the command then fails with status 2.
func (c *lsCommand) Run(_ context.Context, env *Env, args []string) error {
	var opts lsOptions
	operands, help, err := c.parse(args, c.flags(&opts))
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}

	if len(operands) == 0 {
		c.listDir(env, env.Cwd(), opts)
		return nil
	}

	failed := false
	printed := false
	for _, p := range operands {
		node, ok := vfs.Resolve(env.Cwd(), p)
		if !ok {
			fmt.Fprintf(env.Stderr, "%s: cannot access '%s': %s\n", c.name, p, describe(vfs.ErrNotFound))
			failed = true
			continue
		}

		if printed && len(operands) > 1 {
			fmt.Fprintln(env.Stdout)
		}
		printed = true

		dir, isDir := node.(*vfs.Directory)
		if !isDir {
			if opts.long {
				fmt.Fprint(env.Stdout, longListing([][]string{longRow(node, p)}))
			} else {
				fmt.Fprintln(env.Stdout, p)
			}
			continue
		}
		if len(operands) > 1 {
			fmt.Fprintf(env.Stdout, "%s:\n", p)
		}
		c.listDir(env, dir, opts)
	}
	return statusFor(failed, 2)
}

func (c *lsCommand) listDir(env *Env, dir *vfs.Directory, opts lsOptions) {
	children := dir.Children()
	if len(children) == 0 {
		return
	}

	if !opts.long {
		names := make([]string, len(children))
		for i, child := range children {
			names[i] = child.Name()
		}
		fmt.Fprintln(env.Stdout, strings.Join(names, "  "))
		return
	}

	rows := make([][]string, len(children))
	for i, child := range children {
		rows[i] = longRow(child, child.Name())
	}
	fmt.Fprint(env.Stdout, longListing(rows))
}

func longRow(n vfs.Node, name string) []string {
	return []string{
		strconv.FormatInt(n.Size(), 10),
		n.ModTime().Format(ModTimeLayout),
		name,
	}
}

// longListing renders rows as borderless columns: size right aligned,
// modification time, then name. The result ends with a newline.
//
// The table is given an empty header row, which is dropped from the output;
// a headerless borderless table loses its last row.
func longListing(rows [][]string) string {
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers("", "", "").
		StyleFunc(func(_, col int) lipgloss.Style {
			switch col {
			case 0:
				return cell.Align(lipgloss.Right)
			case 1:
				return cell
			default:
				return lipgloss.NewStyle()
			}
		}).
		Rows(rows...)

	lines := strings.Split(strings.TrimRight(t.Render(), "\n"), "\n")
	if len(lines) > len(rows) {
		lines = lines[len(lines)-len(rows):]
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}
