package dto

import (
	"time"

	"deadline-tracker/modules/calendar/entity"
)

type SelectCalendarRequest struct {
	CalendarID string `json:"calendar_id" validate:"required"`
}

type LinkFeedRequest struct {
	ICalURL string `json:"ical_url" validate:"required,url"`
	Label   string `json:"label"`
}

// UnifiedEventsResponse is the store-backed event list plus the time the
// background sync last completed. LastSyncedAt is nil until the first sync.
type UnifiedEventsResponse struct {
	Events       []entity.ExternalEvent `json:"events"`
	LastSyncedAt *time.Time             `json:"last_synced_at"`
}

type CronSyncResponse struct {
	Enqueued int `json:"enqueued"`
}
