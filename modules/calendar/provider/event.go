package provider

import "time"

// Event is the normalized form every provider maps into. ID already carries
// the source prefix (google_, outlook_, ical_<feedId>_) so events from
// different providers never collide in the store.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       string
	End         string
	HTMLLink    string
	Source      string
	FeedID      string
}

type CalendarInfo struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	Primary         bool   `json:"primary"`
	BackgroundColor string `json:"background_color"`
}

type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}
