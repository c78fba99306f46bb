package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7C3AED")
	colorMuted  = lipgloss.Color("#6B7280")
	colorError  = lipgloss.Color("#DC2626")
	colorOK     = lipgloss.Color("#16A34A")
)

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	counter  lipgloss.Style
	label    lipgloss.Style
	selected lipgloss.Style
	option   lipgloss.Style
	err      lipgloss.Style
	ok       lipgloss.Style
	help     lipgloss.Style
	frame    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		subtitle: lipgloss.NewStyle().Foreground(colorMuted),
		counter:  lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		label:    lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		option:   lipgloss.NewStyle(),
		err:      lipgloss.NewStyle().Foreground(colorError),
		ok:       lipgloss.NewStyle().Foreground(colorOK),
		help:     lipgloss.NewStyle().Foreground(colorMuted),
		frame:    lipgloss.NewStyle().Padding(1, 2),
	}
}
