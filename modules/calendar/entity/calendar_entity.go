package entity

import "time"

// ExternalEvent is one synced row in the local event store. CompositeID
// carries the source prefix, so the (teacher_id, composite_id) pair is the
// upsert key across all providers.
type ExternalEvent struct {
	TeacherID   string    `db:"teacher_id" json:"-"`
	CompositeID string    `db:"composite_id" json:"id"`
	Summary     string    `db:"summary" json:"summary"`
	Description *string   `db:"description" json:"description"`
	StartAt     string    `db:"start_at" json:"start"`
	EndAt       string    `db:"end_at" json:"end"`
	HTMLLink    *string   `db:"html_link" json:"html_link"`
	Source      string    `db:"source" json:"source"`
	FeedID      *string   `db:"feed_id" json:"feed_id,omitempty"`
	SyncedAt    time.Time `db:"synced_at" json:"synced_at"`
}

type ICalFeed struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"-"`
	URL       string    `db:"url" json:"url"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
