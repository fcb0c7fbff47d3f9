package entity

import (
	"time"

	"deadline-tracker/core/entity"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Deadline struct {
	TeacherID   string    `db:"teacher_id" json:"-"`
	Title       string    `db:"title" json:"title"`
	CourseName  string    `db:"course_name" json:"course_name"`
	Description string    `db:"description" json:"description"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	Priority    string    `db:"priority" json:"priority"`

	ReminderSevenDay bool `db:"reminder_seven_day" json:"reminder_seven_day"`
	ReminderThreeDay bool `db:"reminder_three_day" json:"reminder_three_day"`
	ReminderOneDay   bool `db:"reminder_one_day" json:"reminder_one_day"`
	ReminderSixHour  bool `db:"reminder_six_hour" json:"reminder_six_hour"`

	CalendarSynced bool    `db:"calendar_synced" json:"calendar_synced"`
	GoogleEventID  *string `db:"google_event_id" json:"-"`

	entity.BaseEntity
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
