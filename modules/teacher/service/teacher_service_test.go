package service

import (
	"context"
	"testing"
	"time"

	"deadline-tracker/core/config"
	coreerrors "deadline-tracker/core/errors"
	"deadline-tracker/modules/teacher/dto"
	"deadline-tracker/modules/teacher/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeacherRepo struct {
	byID    map[string]*entity.Teacher
	byEmail map[string]*entity.Teacher
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{
		byID:    map[string]*entity.Teacher{},
		byEmail: map[string]*entity.Teacher{},
	}
}

func (f *fakeTeacherRepo) Create(_ context.Context, t *entity.Teacher) error {
	f.byID[t.ID] = t
	f.byEmail[t.Email] = t
	return nil
}

func (f *fakeTeacherRepo) GetByID(_ context.Context, id string) (*entity.Teacher, error) {
	return f.byID[id], nil
}

func (f *fakeTeacherRepo) GetByEmail(_ context.Context, email string) (*entity.Teacher, error) {
	return f.byEmail[email], nil
}

func (f *fakeTeacherRepo) UpdateGoogleTokens(_ context.Context, _, _, _ string, _ time.Time) error {
	return nil
}

func (f *fakeTeacherRepo) ConnectGoogle(_ context.Context, _ string) error { return nil }

func (f *fakeTeacherRepo) UpdateOutlookTokens(_ context.Context, _, _, _ string, _ time.Time) error {
	return nil
}

func (f *fakeTeacherRepo) ConnectOutlook(_ context.Context, _ string) error { return nil }

func (f *fakeTeacherRepo) SetLinkedCalendar(_ context.Context, _, _ string) error { return nil }

func (f *fakeTeacherRepo) SetAutoSync(_ context.Context, _ string, _ bool) error { return nil }

func (f *fakeTeacherRepo) ListAutoSyncEnabled(_ context.Context) ([]entity.Teacher, error) {
	return nil, nil
}

func setupConfig(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(config.Reset)
}

func TestRegisterIssuesToken(t *testing.T) {
	setupConfig(t)
	svc := NewTeacherService(newFakeTeacherRepo())

	resp, appErr := svc.Register(context.Background(), &dto.RegisterTeacherRequest{
		Name:       "Dana",
		Email:      "dana@school.test",
		Department: "Math",
	})

	require.Nil(t, appErr)
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "dana@school.test", resp.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupConfig(t)
	svc := NewTeacherService(newFakeTeacherRepo())

	_, appErr := svc.Register(context.Background(), &dto.RegisterTeacherRequest{Name: "A", Email: "a@school.test"})
	require.Nil(t, appErr)

	_, appErr = svc.Register(context.Background(), &dto.RegisterTeacherRequest{Name: "B", Email: "a@school.test"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrAlreadyExists, appErr.Code)
}

func TestRegisterValidatesInput(t *testing.T) {
	setupConfig(t)
	svc := NewTeacherService(newFakeTeacherRepo())

	_, appErr := svc.Register(context.Background(), &dto.RegisterTeacherRequest{Email: "x@school.test"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrInvalidInput, appErr.Code)
}

func TestGetProfileNotFound(t *testing.T) {
	setupConfig(t)
	svc := NewTeacherService(newFakeTeacherRepo())

	_, appErr := svc.GetProfile(context.Background(), "missing")

	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrNotFound, appErr.Code)
}

func TestGetProfileReportsConnections(t *testing.T) {
	setupConfig(t)
	repo := newFakeTeacherRepo()
	svc := NewTeacherService(repo)

	resp, appErr := svc.Register(context.Background(), &dto.RegisterTeacherRequest{Name: "Dana", Email: "d@school.test"})
	require.Nil(t, appErr)

	stored := repo.byID[resp.ID]
	stored.CalendarConnected = true
	linked := "cal-1"
	stored.LinkedCalendarID = &linked

	profile, appErr := svc.GetProfile(context.Background(), resp.ID)

	require.Nil(t, appErr)
	assert.True(t, profile.CalendarConnected)
	assert.False(t, profile.OutlookConnected)
	require.NotNil(t, profile.LinkedCalendarID)
	assert.Equal(t, "cal-1", *profile.LinkedCalendarID)
}
