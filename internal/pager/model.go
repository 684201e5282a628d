// Package pager shows rendered book pages, either as plain text or in an
// interactive terminal browser.
package pager

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// EmptyMessage is shown when there are no pages.
const EmptyMessage = "No pages to show."

// Model is the Bubble Tea model for browsing pages.
type Model struct {
	pages []string
	index int
	width int
	done  bool
	keys  keyMap
	help  help.Model
}

// NewModel creates a Model positioned on the first page.
func NewModel(pages []string) Model {
	return Model{
		pages: pages,
		keys:  KeyMap(),
		help:  help.New(),
	}
}

// Index returns the zero-based index of the current page.
func (m Model) Index() int {
	return m.index
}

// Done reports whether the user has quit.
func (m Model) Done() bool {
	return m.done
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and terminal resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.index < len(m.pages)-1 {
				m.index++
			}
		case key.Matches(msg, m.keys.Prev):
			if m.index > 0 {
				m.index--
			}
		case key.Matches(msg, m.keys.First):
			m.index = 0
		case key.Matches(msg, m.keys.Last):
			if len(m.pages) > 0 {
				m.index = len(m.pages) - 1
			}
		}
	}
	return m, nil
}

// View renders the current page with a header and help bar.
func (m Model) View() string {
	var b strings.Builder

	if len(m.pages) == 0 {
		b.WriteString(DimStyle().Render(EmptyMessage))
	} else {
		b.WriteString(HeaderStyle().Render(fmt.Sprintf("Page %d/%d", m.index+1, len(m.pages))))
		b.WriteString("\n")
		b.WriteString(PageStyle(m.width).Render(m.pages[m.index]))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
