package service

import (
	"context"
	"time"

	coreentity "deadline-tracker/core/entity"
	"deadline-tracker/core/errors"
	"deadline-tracker/core/logger"
	"deadline-tracker/modules/calendar/provider"
	"deadline-tracker/modules/deadline/dto"
	"deadline-tracker/modules/deadline/entity"
	"deadline-tracker/modules/deadline/repository"

	"github.com/google/uuid"
)

const calendarEventWindow = time.Hour

// calendarBridge is the slice of the Google client the deadline service
// uses to mirror deadlines onto the linked calendar.
type calendarBridge interface {
	InsertEvent(ctx context.Context, teacherID string, in provider.EventInput) (string, error)
	DeleteEvent(ctx context.Context, teacherID, eventID string) error
}

type DeadlineService struct {
	repo   repository.IDeadlineRepository
	bridge calendarBridge
}

func NewDeadlineService(repo repository.IDeadlineRepository, bridge calendarBridge) *DeadlineService {
	return &DeadlineService{repo: repo, bridge: bridge}
}

// Create stores the deadline and then mirrors it onto the linked Google
// calendar. The mirror is best effort: a provider failure leaves the
// deadline created with calendar_synced false.
func (s *DeadlineService) Create(ctx context.Context, teacherID string, req *dto.CreateDeadlineRequest) (*entity.Deadline, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if req.DueDate.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Due date is required", nil)
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(priority) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Priority must be low, medium or high", nil)
	}

	now := time.Now()
	deadline := &entity.Deadline{
		TeacherID:        teacherID,
		Title:            req.Title,
		CourseName:       req.CourseName,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Priority:         priority,
		ReminderSevenDay: req.Reminders.SevenDay,
		ReminderThreeDay: req.Reminders.ThreeDay,
		ReminderOneDay:   req.Reminders.OneDay,
		ReminderSixHour:  req.Reminders.SixHour,
		BaseEntity: coreentity.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.repo.Create(ctx, deadline); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create deadline", err)
	}

	s.mirrorToCalendar(ctx, deadline)
	return deadline, nil
}

func (s *DeadlineService) mirrorToCalendar(ctx context.Context, deadline *entity.Deadline) {
	if s.bridge == nil {
		return
	}

	eventID, err := s.bridge.InsertEvent(ctx, deadline.TeacherID, provider.EventInput{
		Summary:     "[Deadline] " + deadline.Title,
		Description: deadline.Description,
		Start:       deadline.DueDate,
		End:         deadline.DueDate.Add(calendarEventWindow),
	})
	if err != nil {
		logger.Warn("DeadlineService:MirrorToCalendar:Skipped",
			"deadline_id", deadline.ID, "error", err)
		return
	}

	if err := s.repo.MarkCalendarSynced(ctx, deadline.ID, eventID); err != nil {
		logger.Error("DeadlineService:MirrorToCalendar:MarkSynced:Error:", err)
		return
	}
	deadline.CalendarSynced = true
	deadline.GoogleEventID = &eventID
}

func (s *DeadlineService) List(ctx context.Context, teacherID string) ([]entity.Deadline, *errors.AppError) {
	deadlines, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list deadlines", err)
	}
	if deadlines == nil {
		deadlines = []entity.Deadline{}
	}
	return deadlines, nil
}

func (s *DeadlineService) Update(ctx context.Context, teacherID string, id uuid.UUID, req *dto.UpdateDeadlineRequest) (*entity.Deadline, *errors.AppError) {
	deadline, err := s.repo.GetByID(ctx, teacherID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load deadline", err)
	}
	if deadline == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Deadline not found", nil)
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Title cannot be empty", nil)
		}
		deadline.Title = *req.Title
	}
	if req.CourseName != nil {
		deadline.CourseName = *req.CourseName
	}
	if req.Description != nil {
		deadline.Description = *req.Description
	}
	if req.DueDate != nil {
		deadline.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		if !entity.ValidPriority(*req.Priority) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Priority must be low, medium or high", nil)
		}
		deadline.Priority = *req.Priority
	}
	if req.Reminders != nil {
		deadline.ReminderSevenDay = req.Reminders.SevenDay
		deadline.ReminderThreeDay = req.Reminders.ThreeDay
		deadline.ReminderOneDay = req.Reminders.OneDay
		deadline.ReminderSixHour = req.Reminders.SixHour
	}
	deadline.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, deadline); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update deadline", err)
	}
	return deadline, nil
}

// Delete removes the deadline and, when it was mirrored, best-effort
// removes the calendar event too.
func (s *DeadlineService) Delete(ctx context.Context, teacherID string, id uuid.UUID) *errors.AppError {
	deadline, err := s.repo.GetByID(ctx, teacherID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load deadline", err)
	}
	if deadline == nil {
		return errors.NewAppError(errors.ErrNotFound, "Deadline not found", nil)
	}

	if s.bridge != nil && deadline.GoogleEventID != nil && *deadline.GoogleEventID != "" {
		if err := s.bridge.DeleteEvent(ctx, teacherID, *deadline.GoogleEventID); err != nil {
			logger.Warn("DeadlineService:Delete:RemoveCalendarEvent:Skipped",
				"deadline_id", deadline.ID, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, teacherID, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete deadline", err)
	}
	return nil
}
