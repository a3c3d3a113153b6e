package sessions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/confware/schedsync/internal/domain"
)

type RenderOptions struct {
	// SavedOnly restricts the listing to bookmarked sessions.
	SavedOnly bool
	// ShowFacets appends the tag facet summary below the listing.
	ShowFacets bool
}

func renderView(bundle *domain.ScheduleBundle, opts RenderOptions, s styles) string {
	sessions := selectSessions(bundle, opts)

	lines := []string{
		s.title.Render(listTitle(opts)),
		s.header.Render(fmt.Sprintf("sessions: %d", len(sessions))),
	}

	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render(emptyLabel(opts)))
	} else {
		for _, day := range dayOrder(sessions) {
			lines = append(lines, s.section.Render(renderDay(day, sessions, s)))
		}
	}

	if opts.ShowFacets {
		lines = append(lines, s.section.Render(renderFacets(bundle.Facets, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func selectSessions(bundle *domain.ScheduleBundle, opts RenderOptions) []*domain.Session {
	if !opts.SavedOnly {
		return bundle.Sessions
	}

	saved := make([]*domain.Session, 0, len(bundle.Sessions))
	for _, session := range bundle.Sessions {
		if session.Saved {
			saved = append(saved, session)
		}
	}
	return saved
}

func listTitle(opts RenderOptions) string {
	if opts.SavedOnly {
		return "My Schedule"
	}
	return "Conference Schedule"
}

func emptyLabel(opts RenderOptions) string {
	if opts.SavedOnly {
		return "No saved sessions yet."
	}
	return "No sessions published yet."
}

// dayOrder preserves the order days first appear in the bundle, which
// follows the server's schedule ordering.
func dayOrder(sessions []*domain.Session) []string {
	seen := map[string]bool{}
	days := make([]string, 0, 4)
	for _, session := range sessions {
		if !seen[session.Day] {
			seen[session.Day] = true
			days = append(days, session.Day)
		}
	}
	return days
}

func renderDay(day string, sessions []*domain.Session, s styles) string {
	parts := []string{s.day.Render(dayLabel(day))}

	for _, session := range sessions {
		if session.Day != day {
			continue
		}
		parts = append(parts, renderSession(session, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func dayLabel(day string) string {
	if day == "" {
		return "Unscheduled"
	}
	return day
}

func renderSession(session *domain.Session, s styles) string {
	segments := []string{
		s.saved.Render(savedMarker(session.Saved)),
		" ",
		s.timeslot.Render(timeslot(session)),
		"  ",
		s.sessionRow.Render(session.Title),
	}

	if session.Room != "" {
		segments = append(segments, "  ", s.room.Render("@ "+session.Room))
	}
	if len(session.Speakers) > 0 {
		segments = append(segments, "  ", s.speakers.Render(strings.Join(session.Speakers, ", ")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func savedMarker(saved bool) string {
	if saved {
		return "★"
	}
	return " "
}

func timeslot(session *domain.Session) string {
	if session.Start.IsZero() {
		return "--:--"
	}
	slot := session.Start.Format("15:04")
	if !session.End.IsZero() {
		slot += "-" + session.End.Format("15:04")
	}
	return slot
}

func renderFacets(facets domain.Facets, s styles) string {
	parts := []string{s.title.Render("Filters")}

	for _, group := range []struct {
		label string
		names []string
	}{
		{"type:", facets.Types},
		{"topic:", facets.Topics},
		{"theme:", facets.Themes},
	} {
		if len(group.names) == 0 {
			continue
		}
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.facetKey.Render(group.label),
			" ",
			s.facetList.Render(strings.Join(group.names, ", ")),
		))
	}

	if len(parts) == 1 {
		parts = append(parts, s.empty.Render("No filters available."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
