package console

import "github.com/charmbracelet/lipgloss"

type styles struct {
	event     lipgloss.Style
	eventArgs lipgloss.Style
	fatal     lipgloss.Style
	hint      lipgloss.Style
	echo      lipgloss.Style
	sending   lipgloss.Style
	ok        lipgloss.Style
	skipped   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		event:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		eventArgs: r.NewStyle().Foreground(lipgloss.Color("245")),
		fatal:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:      r.NewStyle().Faint(true),
		echo:      r.NewStyle().Foreground(lipgloss.Color("252")),
		sending:   r.NewStyle().Foreground(lipgloss.Color("159")),
		ok:        r.NewStyle().Foreground(lipgloss.Color("114")),
		skipped:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
