package progress

import "github.com/charmbracelet/lipgloss"

type styles struct {
	count lipgloss.Style
	email lipgloss.Style
}

func newStyles() styles {
	return styles{
		count: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		email: lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	}
}
