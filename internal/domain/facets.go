package domain

import "sort"

type TagCategory string

const (
	TagCategoryType  TagCategory = "TYPE"
	TagCategoryTopic TagCategory = "TOPIC"
	TagCategoryTheme TagCategory = "THEME"
)

func (c TagCategory) Valid() bool {
	switch c {
	case TagCategoryType, TagCategoryTopic, TagCategoryTheme:
		return true
	default:
		return false
	}
}

type Tag struct {
	Name            string
	Category        TagCategory
	OrderInCategory int
}

// Facets are the filter groups shown alongside the schedule, one list of tag
// names per category, each sorted ascending by the tag's in-category order.
type Facets struct {
	Types  []string
	Topics []string
	Themes []string
}

// BuildFacets groups tag names by category. Tags with an unknown category are
// skipped rather than rejected: the server may introduce categories this
// client does not render yet.
func BuildFacets(tags []Tag) Facets {
	byCategory := map[TagCategory][]Tag{}
	for _, tag := range tags {
		if !tag.Category.Valid() {
			continue
		}
		byCategory[tag.Category] = append(byCategory[tag.Category], tag)
	}

	return Facets{
		Types:  facetNames(byCategory[TagCategoryType]),
		Topics: facetNames(byCategory[TagCategoryTopic]),
		Themes: facetNames(byCategory[TagCategoryTheme]),
	}
}

func facetNames(tags []Tag) []string {
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].OrderInCategory < tags[j].OrderInCategory
	})

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
