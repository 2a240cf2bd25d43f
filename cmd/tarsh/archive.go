// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/invowk/tarsh/internal/archive"
	"github.com/invowk/tarsh/internal/builtin"
	"github.com/invowk/tarsh/internal/vfs"
)

// newArchiveCommand creates the `tarsh archive` command.
func newArchiveCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive [PATH]",
		Short: "List the members of an archive and how they load",
		Long: `List every member of an archive in archive order, then the members
the filesystem builder leaves out and why.

PATH defaults to the configured system archive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectArchive(cmd, app, opts, args)
		},
	}
}

func inspectArchive(cmd *cobra.Command, app *App, opts *rootOptions, args []string) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return app.fail(err, nil, opts.verbose)
	}
	logger := newLogger(app.stderr, cfg.UI.Verbose)

	path := cfg.SystemDirectory
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return app.fail(archiveNotConfigured(), cfg, cfg.UI.Verbose)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return app.fail(archiveError(path, err), cfg, cfg.UI.Verbose)
	}
	format := archive.DetectFormat(data)
	logger.Debug("inspecting archive", "path", path, "format", format)

	entries, err := archive.Read(ctx, data)
	if err != nil {
		return app.fail(archiveError(path, err), cfg, cfg.UI.Verbose)
	}
	_, report := vfs.BuildWithReport(entries)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s %s\n\n",
		TitleStyle.Render("Archive:"), path, SubtitleStyle.Render("("+format.String()+")"))
	if len(entries) > 0 {
		fmt.Fprint(w, entryTable(entries))
	}

	skipped := reportedSkips(report)
	if len(skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("Skipped:"))
		for _, e := range skipped {
			fmt.Fprintf(w, "  %s: %v\n", e.Path, e.Err)
		}
	}

	fmt.Fprintln(w)
	writeSummary(w, report.Directories, report.Files, len(skipped))
	return nil
}

// entryTable renders one row per entry: kind, size, modification time and path.
func entryTable(entries []vfs.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Kind.String(),
			strconv.FormatInt(e.Size, 10),
			e.ModTime.Format(builtin.StatTimeLayout),
			e.Path,
		})
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers("KIND", "SIZE", "MODIFIED", "PATH").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cell
			if col == 1 {
				style = style.Align(lipgloss.Right)
			}
			if col == 3 {
				style = lipgloss.NewStyle()
			}
			if row == table.HeaderRow {
				style = style.Inherit(SubtitleStyle)
			}
			return style
		}).
		Rows(rows...)

	var b strings.Builder
	for line := range strings.SplitSeq(strings.TrimRight(t.Render(), "\n"), "\n") {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// reportedSkips drops the archive's wrapper member, which never maps to a node.
func reportedSkips(report vfs.BuildReport) []*vfs.EntryError {
	var out []*vfs.EntryError
	for _, e := range report.Skipped {
		if errors.Is(e, vfs.ErrEmptyPath) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func writeSummary(w io.Writer, dirs, files, skipped int) {
	fmt.Fprintf(w, "%s %d, %s %d, %s %d\n",
		CmdStyle.Render("directories:"), dirs,
		CmdStyle.Render("files:"), files,
		CmdStyle.Render("skipped:"), skipped,
	)
}
