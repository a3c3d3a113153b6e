package sessions

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	day        lipgloss.Style
	saved      lipgloss.Style
	sessionRow lipgloss.Style
	timeslot   lipgloss.Style
	room       lipgloss.Style
	speakers   lipgloss.Style
	facetKey   lipgloss.Style
	facetList  lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		day:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		saved:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		sessionRow: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		timeslot:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		room:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		speakers:   lipgloss.NewStyle().Faint(true),
		facetKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		facetList:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
	}
}
