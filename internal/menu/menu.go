// Package menu provides the interactive entry picker for the dial
// command.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bbsdial/bbsdial/internal/entry"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// model is the bubbletea model for the picker.
type model struct {
	entries  []entry.Entry
	cursor   int
	choice   *entry.Entry
	quitting bool
}

func newModel(entries []entry.Entry) model {
	return model{entries: entries}
}

func (model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.entries) > 0 {
			choice := m.entries[m.cursor]
			m.choice = &choice
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a BBS to dial:"))
	b.WriteString("\n")

	for i, e := range m.entries {
		line := fmt.Sprintf("%s  %s", e.Name, descStyle.Render(e.Description))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: dial • j/k: move • q: quit"))
	return b.String()
}

// Pick shows the interactive picker and returns the chosen entry.
// ok is false when the user quit without choosing.
func Pick(entries []entry.Entry) (chosen entry.Entry, ok bool, err error) {
	if len(entries) == 0 {
		return entry.Entry{}, false, fmt.Errorf("no entries to choose from")
	}

	finalModel, err := tea.NewProgram(newModel(entries)).Run()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("picker failed: %w", err)
	}

	m, castOK := finalModel.(model)
	if !castOK || m.choice == nil {
		return entry.Entry{}, false, nil
	}
	return *m.choice, true, nil
}
