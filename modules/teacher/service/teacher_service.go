package service

import (
	"context"
	"time"

	"deadline-tracker/core/errors"
	"deadline-tracker/core/logger"
	"deadline-tracker/core/utils"
	"deadline-tracker/modules/teacher/dto"
	"deadline-tracker/modules/teacher/entity"
	"deadline-tracker/modules/teacher/repository"
)

const accessTokenTTL = 24 * time.Hour

type TeacherService struct {
	repo repository.ITeacherRepository
}

func NewTeacherService(repo repository.ITeacherRepository) *TeacherService {
	return &TeacherService{repo: repo}
}

func (s *TeacherService) Register(ctx context.Context, req *dto.RegisterTeacherRequest) (*dto.RegisterTeacherResponse, *errors.AppError) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Name and email are required", nil)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing teacher", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "A teacher with this email already exists", nil)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate id", err)
	}

	now := time.Now()
	teacher := &entity.Teacher{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create teacher", err)
	}

	token, err := utils.GenerateToken(teacher.ID, accessTokenTTL)
	if err != nil {
		logger.Error("TeacherService:Register:GenerateToken:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue access token", err)
	}

	return &dto.RegisterTeacherResponse{
		ID:          teacher.ID,
		Name:        teacher.Name,
		Email:       teacher.Email,
		Department:  teacher.Department,
		AccessToken: token,
	}, nil
}

func (s *TeacherService) GetProfile(ctx context.Context, teacherID string) (*dto.TeacherProfileResponse, *errors.AppError) {
	teacher, err := s.repo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load teacher", err)
	}
	if teacher == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Teacher not found", nil)
	}

	return &dto.TeacherProfileResponse{
		ID:                teacher.ID,
		Name:              teacher.Name,
		Email:             teacher.Email,
		Department:        teacher.Department,
		CalendarConnected: teacher.CalendarConnected,
		OutlookConnected:  teacher.OutlookCalendarConnected,
		LinkedCalendarID:  teacher.LinkedCalendarID,
		AutoSyncEnabled:   teacher.AutoSyncEnabled,
	}, nil
}
