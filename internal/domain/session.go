package domain

import "time"

type SessionID string

// Session is one entry in the published master schedule. Display fields are
// carried through untouched; only Saved is written by this module.
type Session struct {
	ID       SessionID
	Title    string
	Room     string
	Day      string
	Start    time.Time
	End      time.Time
	Speakers []string
	Tags     []string
	Saved    bool
}

// ScheduleBundle is the master schedule payload plus the facets derived from
// its tag definitions, delivered once via the schedule gate.
type ScheduleBundle struct {
	Sessions []*Session
	Tags     []Tag
	Facets   Facets
}

type Identity struct {
	UserID string
	Email  string
}
