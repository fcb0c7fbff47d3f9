package service

import (
	"context"

	"deadline-tracker/core/errors"
	"deadline-tracker/core/logger"
	"deadline-tracker/modules/calendar/provider"
	calendarservice "deadline-tracker/modules/calendar/service"
)

// AuthService drives the OAuth authorization-code flows for both calendar
// providers. State carries the teacher id through the round trip.
type AuthService struct {
	google   *provider.GoogleClient
	outlook  *provider.OutlookClient
	enqueuer calendarservice.SyncEnqueuer
}

func NewAuthService(google *provider.GoogleClient, outlook *provider.OutlookClient, enqueuer calendarservice.SyncEnqueuer) *AuthService {
	return &AuthService{google: google, outlook: outlook, enqueuer: enqueuer}
}

func (s *AuthService) GoogleAuthURL(teacherID string) (string, *errors.AppError) {
	if teacherID == "" {
		return "", errors.NewAppError(errors.ErrInvalidInput, "teacherId is required", nil)
	}
	return s.google.AuthCodeURL(teacherID), nil
}

// HandleGoogleCallback exchanges the code and stores the tokens. The
// calendar stays unselected until the teacher picks one, so no sync is
// scheduled here.
func (s *AuthService) HandleGoogleCallback(ctx context.Context, code, state string) *errors.AppError {
	if code == "" || state == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "code and state are required", nil)
	}

	if err := s.google.Exchange(ctx, code, state); err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Error:", err)
		return errors.NewAppError(errors.ErrUnauthorized, "Google authorization failed", err)
	}
	return nil
}

func (s *AuthService) OutlookAuthURL(teacherID string) (string, *errors.AppError) {
	if teacherID == "" {
		return "", errors.NewAppError(errors.ErrInvalidInput, "teacherId is required", nil)
	}
	return s.outlook.AuthCodeURL(teacherID), nil
}

// HandleOutlookCallback exchanges the code and schedules a sync right away.
// Outlook has no calendar-selection step, the default calendar is used.
func (s *AuthService) HandleOutlookCallback(ctx context.Context, code, state string) *errors.AppError {
	if code == "" || state == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "code and state are required", nil)
	}

	if err := s.outlook.Exchange(ctx, code, state); err != nil {
		logger.Error("AuthService:HandleOutlookCallback:Error:", err)
		return errors.NewAppError(errors.ErrUnauthorized, "Outlook authorization failed", err)
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueSyncTeacher(state); err != nil {
			logger.Warn("AuthService:HandleOutlookCallback:EnqueueSync:Error:", err)
		}
	}
	return nil
}
