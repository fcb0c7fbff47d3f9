package dto

import "time"

type ReminderSettings struct {
	SevenDay bool `json:"seven_day"`
	ThreeDay bool `json:"three_day"`
	OneDay   bool `json:"one_day"`
	SixHour  bool `json:"six_hour"`
}

type CreateDeadlineRequest struct {
	Title       string           `json:"title" validate:"required"`
	CourseName  string           `json:"course_name"`
	Description string           `json:"description"`
	DueDate     time.Time        `json:"due_date" validate:"required"`
	Priority    string           `json:"priority"`
	Reminders   ReminderSettings `json:"reminders"`
}

type UpdateDeadlineRequest struct {
	Title       *string           `json:"title"`
	CourseName  *string           `json:"course_name"`
	Description *string           `json:"description"`
	DueDate     *time.Time        `json:"due_date"`
	Priority    *string           `json:"priority"`
	Reminders   *ReminderSettings `json:"reminders"`
}
