package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   lipgloss.Style
	message lipgloss.Style
	warn    lipgloss.Style
	info    lipgloss.Style
	header  lipgloss.Style
	current lipgloss.Style
	dim     lipgloss.Style
}

// newStyles binds styles to w so color is dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		message: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		info:    r.NewStyle().Foreground(lipgloss.Color("245")),
		header:  r.NewStyle().Bold(true).Underline(true),
		current: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
