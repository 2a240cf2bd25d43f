// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type (
	// Interactive edits one line per call in a terminal and keeps the
	// history of submitted lines.
	Interactive struct {
		// PromptStyle renders the prompt text.
		PromptStyle lipgloss.Style

		in      io.Reader
		out     io.Writer
		history []string
	}

	// lineModel is the bubbletea model of a single line edit.
	lineModel struct {
		input   textinput.Model
		history []string
		// pos indexes history; len(history) means the line being typed.
		pos   int
		draft string
		line  string
		done  bool
		eof   bool
	}
)

// NewInteractive returns an editor reading keys from in and drawing on out.
// history seeds the lines reachable with the up arrow, oldest first.
func NewInteractive(in io.Reader, out io.Writer, history []string) *Interactive {
	return &Interactive{
		in:      in,
		out:     out,
		history: append([]string(nil), history...),
	}
}

// History returns the submitted lines, oldest first.
func (i *Interactive) History() []string {
	return append([]string(nil), i.history...)
}

// ReadLine runs the editor until enter, or until ctrl+d on an empty line
// which returns io.EOF.
func (i *Interactive) ReadLine(ctx context.Context, prompt string) (string, error) {
	m := newLineModel(prompt, i.history, i.PromptStyle)
	p := tea.NewProgram(m,
		tea.WithInput(i.in),
		tea.WithOutput(i.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}

	lm, ok := final.(*lineModel)
	if !ok {
		return "", errors.New("read line: unexpected model")
	}
	if lm.eof {
		return "", io.EOF
	}
	i.remember(lm.line)
	return lm.line, nil
}

// remember appends a submitted line to the history. Blank lines are not kept.
func (i *Interactive) remember(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	i.history = append(i.history, line)
}

func newLineModel(prompt string, history []string, style lipgloss.Style) *lineModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = style
	ti.Focus()
	return &lineModel{
		input:   ti,
		history: history,
		pos:     len(history),
	}
}

// Init implements tea.Model.
func (m *lineModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.line = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.eof = true
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyCtrlC:
			m.input.SetValue("")
			m.pos = len(m.history)
			m.draft = ""
			return m, nil
		case tea.KeyUp:
			m.back()
			return m, nil
		case tea.KeyDown:
			m.forward()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *lineModel) View() string {
	if m.done {
		if m.eof {
			return m.input.PromptStyle.Render(m.input.Prompt) + "\n"
		}
		return m.input.PromptStyle.Render(m.input.Prompt) + m.line + "\n"
	}
	return m.input.View()
}

// back shows the previous history entry, saving the typed line first.
func (m *lineModel) back() {
	if m.pos == 0 {
		return
	}
	if m.pos == len(m.history) {
		m.draft = m.input.Value()
	}
	m.pos--
	m.show(m.history[m.pos])
}

// forward shows the next history entry, or the saved draft past the end.
func (m *lineModel) forward() {
	if m.pos == len(m.history) {
		return
	}
	m.pos++
	if m.pos == len(m.history) {
		m.show(m.draft)
		return
	}
	m.show(m.history[m.pos])
}

func (m *lineModel) show(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}
