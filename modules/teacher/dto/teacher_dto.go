package dto

type RegisterTeacherRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department"`
}

type RegisterTeacherResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	AccessToken string `json:"access_token"`
}

type TeacherProfileResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Department        string  `json:"department"`
	CalendarConnected bool    `json:"calendar_connected"`
	OutlookConnected  bool    `json:"outlook_connected"`
	LinkedCalendarID  *string `json:"linked_calendar_id"`
	AutoSyncEnabled   bool    `json:"auto_sync_enabled"`
}
