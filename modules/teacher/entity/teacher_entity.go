package entity

import (
	"time"
)

type Teacher struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	Department string `db:"department" json:"department"`

	GoogleAccessToken  *string    `db:"google_access_token" json:"-"`
	GoogleRefreshToken *string    `db:"google_refresh_token" json:"-"`
	GoogleTokenExpiry  *time.Time `db:"google_token_expiry" json:"-"`
	CalendarConnected  bool       `db:"calendar_connected" json:"calendar_connected"`
	LinkedCalendarID   *string    `db:"linked_calendar_id" json:"linked_calendar_id"`
	AutoSyncEnabled    bool       `db:"auto_sync_enabled" json:"auto_sync_enabled"`

	OutlookAccessToken       *string    `db:"outlook_access_token" json:"-"`
	OutlookRefreshToken      *string    `db:"outlook_refresh_token" json:"-"`
	OutlookTokenExpiry       *time.Time `db:"outlook_token_expiry" json:"-"`
	OutlookCalendarConnected bool       `db:"outlook_calendar_connected" json:"outlook_calendar_connected"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasGoogleTokens reports whether both Google tokens are present. Connected
// state alone is not enough, a disconnect can clear tokens without flipping
// the flag in the same transaction.
func (t *Teacher) HasGoogleTokens() bool {
	return t.GoogleAccessToken != nil && *t.GoogleAccessToken != "" &&
		t.GoogleRefreshToken != nil && *t.GoogleRefreshToken != ""
}

func (t *Teacher) HasOutlookRefreshToken() bool {
	return t.OutlookRefreshToken != nil && *t.OutlookRefreshToken != ""
}
