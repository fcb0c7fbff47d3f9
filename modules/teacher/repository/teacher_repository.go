package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"deadline-tracker/core/database"
	"deadline-tracker/core/logger"
	"deadline-tracker/modules/teacher/entity"
)

// ITeacherRepository is the persistence surface the calendar providers and
// services depend on. Token updates are partial UPDATEs touching only their
// own columns so the two OAuth providers never clobber each other.
type ITeacherRepository interface {
	Create(ctx context.Context, teacher *entity.Teacher) error
	GetByID(ctx context.Context, id string) (*entity.Teacher, error)
	GetByEmail(ctx context.Context, email string) (*entity.Teacher, error)
	UpdateGoogleTokens(ctx context.Context, teacherID, accessToken, refreshToken string, expiry time.Time) error
	ConnectGoogle(ctx context.Context, teacherID string) error
	UpdateOutlookTokens(ctx context.Context, teacherID, accessToken, refreshToken string, expiry time.Time) error
	ConnectOutlook(ctx context.Context, teacherID string) error
	SetLinkedCalendar(ctx context.Context, teacherID, calendarID string) error
	SetAutoSync(ctx context.Context, teacherID string, enabled bool) error
	ListAutoSyncEnabled(ctx context.Context) ([]entity.Teacher, error)
}

type TeacherRepository struct {
	db database.IDatabase
}

func NewTeacherRepository(db database.IDatabase) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher *entity.Teacher) error {
	query := `
		INSERT INTO teachers (id, name, email, department, created_at, updated_at)
		VALUES (:id, :name, :email, :department, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		logger.Error("TeacherRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*entity.Teacher, error) {
	var teacher entity.Teacher
	err := r.db.GetContext(ctx, &teacher, `SELECT * FROM teachers WHERE id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("TeacherRepository:GetByID:Error:", err)
		return nil, err
	}
	return &teacher, nil
}

func (r *TeacherRepository) GetByEmail(ctx context.Context, email string) (*entity.Teacher, error) {
	var teacher entity.Teacher
	err := r.db.GetContext(ctx, &teacher, `SELECT * FROM teachers WHERE email = $1`, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("TeacherRepository:GetByEmail:Error:", err)
		return nil, err
	}
	return &teacher, nil
}

// UpdateGoogleTokens persists a refreshed token set. Google omits the refresh
// token on non-initial grants, so an empty refresh token keeps the stored one.
func (r *TeacherRepository) UpdateGoogleTokens(ctx context.Context, teacherID, accessToken, refreshToken string, expiry time.Time) error {
	query := `
		UPDATE teachers
		SET google_access_token = $2,
		    google_refresh_token = COALESCE(NULLIF($3, ''), google_refresh_token),
		    google_token_expiry = $4,
		    updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query, teacherID, accessToken, refreshToken, expiry)
	if err != nil {
		logger.Error("TeacherRepository:UpdateGoogleTokens:Error:", err)
		return err
	}
	return nil
}

func (r *TeacherRepository) ConnectGoogle(ctx context.Context, teacherID string) error {
	query := `UPDATE teachers SET calendar_connected = TRUE, updated_at = NOW() WHERE id = $1`
	err := r.db.ExecContext(ctx, query, teacherID)
	if err != nil {
		logger.Error("TeacherRepository:ConnectGoogle:Error:", err)
		return err
	}
	return nil
}

func (r *TeacherRepository) UpdateOutlookTokens(ctx context.Context, teacherID, accessToken, refreshToken string, expiry time.Time) error {
	query := `
		UPDATE teachers
		SET outlook_access_token = $2,
		    outlook_refresh_token = COALESCE(NULLIF($3, ''), outlook_refresh_token),
		    outlook_token_expiry = $4,
		    updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query, teacherID, accessToken, refreshToken, expiry)
	if err != nil {
		logger.Error("TeacherRepository:UpdateOutlookTokens:Error:", err)
		return err
	}
	return nil
}

func (r *TeacherRepository) ConnectOutlook(ctx context.Context, teacherID string) error {
	query := `UPDATE teachers SET outlook_calendar_connected = TRUE, updated_at = NOW() WHERE id = $1`
	err := r.db.ExecContext(ctx, query, teacherID)
	if err != nil {
		logger.Error("TeacherRepository:ConnectOutlook:Error:", err)
		return err
	}
	return nil
}

// SetLinkedCalendar also enables auto sync, selecting a calendar is the
// signal that the teacher wants the sweep to include them.
func (r *TeacherRepository) SetLinkedCalendar(ctx context.Context, teacherID, calendarID string) error {
	query := `
		UPDATE teachers
		SET linked_calendar_id = $2, auto_sync_enabled = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query, teacherID, calendarID)
	if err != nil {
		logger.Error("TeacherRepository:SetLinkedCalendar:Error:", err)
		return err
	}
	return nil
}

func (r *TeacherRepository) SetAutoSync(ctx context.Context, teacherID string, enabled bool) error {
	query := `UPDATE teachers SET auto_sync_enabled = $2, updated_at = NOW() WHERE id = $1`
	err := r.db.ExecContext(ctx, query, teacherID, enabled)
	if err != nil {
		logger.Error("TeacherRepository:SetAutoSync:Error:", err)
		return err
	}
	return nil
}

func (r *TeacherRepository) ListAutoSyncEnabled(ctx context.Context) ([]entity.Teacher, error) {
	var teachers []entity.Teacher
	query := `SELECT * FROM teachers WHERE auto_sync_enabled = TRUE ORDER BY created_at`
	err := r.db.SelectContext(ctx, &teachers, query)
	if err != nil {
		logger.Error("TeacherRepository:ListAutoSyncEnabled:Error:", err)
		return nil, err
	}
	return teachers, nil
}
