package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"deadline-tracker/core/database"
	"deadline-tracker/core/logger"
	"deadline-tracker/modules/deadline/entity"

	"github.com/google/uuid"
)

type IDeadlineRepository interface {
	Create(ctx context.Context, deadline *entity.Deadline) error
	GetByID(ctx context.Context, teacherID string, id uuid.UUID) (*entity.Deadline, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]entity.Deadline, error)
	Update(ctx context.Context, deadline *entity.Deadline) error
	Delete(ctx context.Context, teacherID string, id uuid.UUID) error
	MarkCalendarSynced(ctx context.Context, id uuid.UUID, googleEventID string) error
}

type DeadlineRepository struct {
	db database.IDatabase
}

func NewDeadlineRepository(db database.IDatabase) *DeadlineRepository {
	return &DeadlineRepository{db: db}
}

func (r *DeadlineRepository) Create(ctx context.Context, deadline *entity.Deadline) error {
	query := `
		INSERT INTO deadlines (id, teacher_id, title, course_name, description, due_date, priority,
			reminder_seven_day, reminder_three_day, reminder_one_day, reminder_six_hour,
			calendar_synced, created_at, updated_at)
		VALUES (:id, :teacher_id, :title, :course_name, :description, :due_date, :priority,
			:reminder_seven_day, :reminder_three_day, :reminder_one_day, :reminder_six_hour,
			:calendar_synced, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, deadline)
	if err != nil {
		logger.Error("DeadlineRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *DeadlineRepository) GetByID(ctx context.Context, teacherID string, id uuid.UUID) (*entity.Deadline, error) {
	var deadline entity.Deadline
	query := `SELECT * FROM deadlines WHERE id = $1 AND teacher_id = $2`
	err := r.db.GetContext(ctx, &deadline, query, id, teacherID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("DeadlineRepository:GetByID:Error:", err)
		return nil, err
	}
	return &deadline, nil
}

func (r *DeadlineRepository) ListByTeacher(ctx context.Context, teacherID string) ([]entity.Deadline, error) {
	var deadlines []entity.Deadline
	query := `SELECT * FROM deadlines WHERE teacher_id = $1 ORDER BY due_date ASC`
	err := r.db.SelectContext(ctx, &deadlines, query, teacherID)
	if err != nil {
		logger.Error("DeadlineRepository:ListByTeacher:Error:", err)
		return nil, err
	}
	return deadlines, nil
}

func (r *DeadlineRepository) Update(ctx context.Context, deadline *entity.Deadline) error {
	query := `
		UPDATE deadlines
		SET title = :title, course_name = :course_name, description = :description,
		    due_date = :due_date, priority = :priority,
		    reminder_seven_day = :reminder_seven_day, reminder_three_day = :reminder_three_day,
		    reminder_one_day = :reminder_one_day, reminder_six_hour = :reminder_six_hour,
		    updated_at = :updated_at
		WHERE id = :id AND teacher_id = :teacher_id
	`
	_, err := r.db.NamedExecContext(ctx, query, deadline)
	if err != nil {
		logger.Error("DeadlineRepository:Update:Error:", err)
		return err
	}
	return nil
}

func (r *DeadlineRepository) Delete(ctx context.Context, teacherID string, id uuid.UUID) error {
	query := `DELETE FROM deadlines WHERE id = $1 AND teacher_id = $2`
	err := r.db.ExecContext(ctx, query, id, teacherID)
	if err != nil {
		logger.Error("DeadlineRepository:Delete:Error:", err)
		return err
	}
	return nil
}

func (r *DeadlineRepository) MarkCalendarSynced(ctx context.Context, id uuid.UUID, googleEventID string) error {
	query := `
		UPDATE deadlines
		SET calendar_synced = TRUE, google_event_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query, id, googleEventID)
	if err != nil {
		logger.Error("DeadlineRepository:MarkCalendarSynced:Error:", err)
		return err
	}
	return nil
}
