package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confware/schedsync/internal/domain"
)

func testBundle() *domain.ScheduleBundle {
	day1 := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	tags := []domain.Tag{
		{Name: "Workshop", Category: domain.TagCategoryType, OrderInCategory: 2},
		{Name: "Talk", Category: domain.TagCategoryType, OrderInCategory: 1},
		{Name: "Go", Category: domain.TagCategoryTopic, OrderInCategory: 1},
		{Name: "Community", Category: domain.TagCategoryTheme, OrderInCategory: 1},
	}

	return &domain.ScheduleBundle{
		Sessions: []*domain.Session{
			{
				ID:       "s-1",
				Title:    "Opening Keynote",
				Room:     "Main Hall",
				Day:      "Thursday",
				Start:    day1.Add(9 * time.Hour),
				End:      day1.Add(10 * time.Hour),
				Speakers: []string{"Ada Jones"},
				Saved:    true,
			},
			{
				ID:    "s-2",
				Title: "Profiling in Production",
				Room:  "Room B",
				Day:   "Thursday",
				Start: day1.Add(11 * time.Hour),
				End:   day1.Add(12 * time.Hour),
			},
			{
				ID:       "s-3",
				Title:    "Closing Panel",
				Day:      "Friday",
				Start:    day2.Add(16 * time.Hour),
				Speakers: []string{"Ada Jones", "Sam Lee"},
			},
		},
		Tags:   tags,
		Facets: domain.BuildFacets(tags),
	}
}

func TestRenderFullSchedule(t *testing.T) {
	output, err := Render(testBundle(), RenderOptions{ShowFacets: true})
	require.NoError(t, err)

	assert.Contains(t, output, "Conference Schedule")
	assert.Contains(t, output, "sessions: 3")
	assert.Contains(t, output, "Thursday")
	assert.Contains(t, output, "Friday")
	assert.Contains(t, output, "Opening Keynote")
	assert.Contains(t, output, "09:00-10:00")
	assert.Contains(t, output, "@ Main Hall")
	assert.Contains(t, output, "Ada Jones, Sam Lee")
	assert.Contains(t, output, "★")
	assert.Contains(t, output, "Filters")
	assert.Contains(t, output, "Talk, Workshop")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Community")
}

func TestRenderSavedOnly(t *testing.T) {
	output, err := Render(testBundle(), RenderOptions{SavedOnly: true})
	require.NoError(t, err)

	assert.Contains(t, output, "My Schedule")
	assert.Contains(t, output, "sessions: 1")
	assert.Contains(t, output, "Opening Keynote")
	assert.NotContains(t, output, "Profiling in Production")
	assert.NotContains(t, output, "Filters")
}

func TestRenderSavedOnlyWithNothingSaved(t *testing.T) {
	bundle := testBundle()
	for _, session := range bundle.Sessions {
		session.Saved = false
	}

	output, err := Render(bundle, RenderOptions{SavedOnly: true})
	require.NoError(t, err)

	assert.Contains(t, output, "sessions: 0")
	assert.Contains(t, output, "No saved sessions yet.")
}

func TestRenderEmptyBundle(t *testing.T) {
	output, err := Render(&domain.ScheduleBundle{}, RenderOptions{ShowFacets: true})
	require.NoError(t, err)

	assert.Contains(t, output, "sessions: 0")
	assert.Contains(t, output, "No sessions published yet.")
	assert.Contains(t, output, "No filters available.")
}

func TestRenderSessionWithoutTimes(t *testing.T) {
	bundle := &domain.ScheduleBundle{
		Sessions: []*domain.Session{{ID: "s-9", Title: "Hallway Track"}},
	}

	output, err := Render(bundle, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "Unscheduled")
	assert.Contains(t, output, "--:--")
	assert.Contains(t, output, "Hallway Track")
}
