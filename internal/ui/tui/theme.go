package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Pane     lipgloss.Style
	Focused  lipgloss.Style
	Label    lipgloss.Style
	Emphasis lipgloss.Style
	Message  lipgloss.Style
	Warning  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Pane: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		Focused: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Label:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Emphasis: lipgloss.NewStyle().Bold(true),
		Message:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
