package pager

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
)

// HeaderStyle renders the "Page i/N" title.
func HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}

// PageStyle returns a rounded border around the page body, sized to width
// when width is positive.
func PageStyle(width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if width > 2 {
		// Border takes two columns.
		s = s.Width(width - 2)
	}
	return s
}

// DimStyle renders secondary text such as empty-state notes.
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(dim)
}
