// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	// calWeekHeader lists the weekdays, Sunday first.
	calWeekHeader = "Su Mo Tu We Th Fr Sa"
	// calColumnWidth is the width of one month block.
	calColumnWidth = len(calWeekHeader)
	// calMonthsPerRow is the number of months side by side in a year view.
	calMonthsPerRow = 3
	// calGutter separates months in a year view.
	calGutter = "      "
)

type (
	// calCommand prints a calendar.
	calCommand struct {
		baseCommand
	}

	calOptions struct {
		date string
		year string
	}
)

func newCalCommand() *calCommand {
	return &calCommand{
		baseCommand: baseCommand{
			name:     "cal",
			synopsis: "Displays a calendar.",
			usage:    "cal [-d yyyy-mm] [-y yyyy]",
		},
	}
}

func (c *calCommand) flags(o *calOptions) bindFunc {
	return func(fs *pflag.FlagSet) {
		fs.StringVarP(&o.date, "date", "d", "", "show the month `yyyy-mm`")
		fs.StringVarP(&o.year, "year", "y", "", "show the whole year `yyyy`")
	}
}

// Usage returns the help text.
func (c *calCommand) Usage() string { return c.usageText(c.flags(&calOptions{})) }

// Run executes the cal command. -d wins over -y; with neither the current
// month is shown.
func (c *calCommand) Run(_ context.Context, env *Env, args []string) error {
	var opts calOptions
	operands, help, err := c.parse(args, c.flags(&opts))
	if err != nil {
		return err
	}
	if help {
		return printUsage(env, c)
	}
	if len(operands) > 0 {
		return &CommandError{Command: c.name, Err: ErrTooManyArguments}
	}

	switch {
	case opts.date != "":
		year, month, err := parseYearMonth(opts.date)
		if err != nil {
			return &UsageError{Command: c.name, Err: err}
		}
		_, err = io.WriteString(env.Stdout, FormatMonth(year, month))
		return err
	case opts.year != "":
		year, err := strconv.Atoi(opts.year)
		if err != nil || !validYear(year) {
			return &UsageError{Command: c.name, Err: fmt.Errorf("invalid year %q (want 1..9999)", opts.year)}
		}
		_, err = io.WriteString(env.Stdout, FormatYear(year))
		return err
	default:
		now := env.Now()
		_, err := io.WriteString(env.Stdout, FormatMonth(now.Year(), now.Month()))
		return err
	}
}

// FormatMonth renders one month, Sunday first:
//
//	      May 2024
//	Su Mo Tu We Th Fr Sa
//	          1  2  3  4
//	 5  6  7  8  9 10 11
//
// Lines carry no trailing blanks and each ends with a newline.
func FormatMonth(year int, month time.Month) string {
	var b strings.Builder
	title := month.String() + " " + strconv.Itoa(year)
	writeLine(&b, center(title, calColumnWidth))
	writeLine(&b, calWeekHeader)
	for _, week := range monthWeeks(year, month) {
		writeLine(&b, week)
	}
	return b.String()
}

// FormatYear renders twelve months, three per row, under a centered year.
func FormatYear(year int) string {
	var b strings.Builder
	yearWidth := calColumnWidth*calMonthsPerRow + len(calGutter)*(calMonthsPerRow-1)
	writeLine(&b, center(strconv.Itoa(year), yearWidth))

	for first := time.January; first <= time.December; first += calMonthsPerRow {
		b.WriteString("\n")

		var (
			names   []string
			headers []string
			weeks   [][]string
			height  int
		)
		for m := first; m < first+calMonthsPerRow; m++ {
			names = append(names, center(m.String(), calColumnWidth))
			headers = append(headers, calWeekHeader)
			w := monthWeeks(year, m)
			weeks = append(weeks, w)
			height = max(height, len(w))
		}
		writeLine(&b, strings.Join(names, calGutter))
		writeLine(&b, strings.Join(headers, calGutter))

		for row := range height {
			cols := make([]string, len(weeks))
			for i, w := range weeks {
				if row < len(w) {
					cols[i] = w[row]
				} else {
					cols[i] = strings.Repeat(" ", calColumnWidth)
				}
			}
			writeLine(&b, strings.Join(cols, calGutter))
		}
	}
	return b.String()
}

// monthWeeks returns the full weeks of a month, each exactly calColumnWidth
// wide, days outside the month left blank.
func monthWeeks(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	offset := int(first.Weekday())

	cells := make([]string, 0, 42)
	for range offset {
		cells = append(cells, "  ")
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, fmt.Sprintf("%2d", d))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, "  ")
	}

	weeks := make([]string, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, strings.Join(cells[i:i+7], " "))
	}
	return weeks
}

// parseYearMonth parses "yyyy-mm".
func parseYearMonth(s string) (int, time.Month, error) {
	ys, ms, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid date %q (want yyyy-mm)", s)
	}
	year, yerr := strconv.Atoi(ys)
	month, merr := strconv.Atoi(ms)
	if yerr != nil || merr != nil || !validYear(year) || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid date %q (want yyyy-mm)", s)
	}
	return year, time.Month(month), nil
}

func validYear(y int) bool { return y >= 1 && y <= 9999 }

// center pads s with blanks to width, the extra blank going right.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(strings.TrimRight(line, " "))
	b.WriteString("\n")
}
