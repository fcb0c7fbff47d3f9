package service

import (
	"context"
	"errors"
	"testing"
	"time"

	coreerrors "deadline-tracker/core/errors"
	"deadline-tracker/modules/calendar/provider"
	"deadline-tracker/modules/deadline/dto"
	"deadline-tracker/modules/deadline/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeadlineRepo struct {
	deadlines map[uuid.UUID]*entity.Deadline
}

func newFakeDeadlineRepo() *fakeDeadlineRepo {
	return &fakeDeadlineRepo{deadlines: map[uuid.UUID]*entity.Deadline{}}
}

func (f *fakeDeadlineRepo) Create(_ context.Context, d *entity.Deadline) error {
	cp := *d
	f.deadlines[d.ID] = &cp
	return nil
}

func (f *fakeDeadlineRepo) GetByID(_ context.Context, teacherID string, id uuid.UUID) (*entity.Deadline, error) {
	d, ok := f.deadlines[id]
	if !ok || d.TeacherID != teacherID {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDeadlineRepo) ListByTeacher(_ context.Context, teacherID string) ([]entity.Deadline, error) {
	var out []entity.Deadline
	for _, d := range f.deadlines {
		if d.TeacherID == teacherID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeadlineRepo) Update(_ context.Context, d *entity.Deadline) error {
	cp := *d
	f.deadlines[d.ID] = &cp
	return nil
}

func (f *fakeDeadlineRepo) Delete(_ context.Context, _ string, id uuid.UUID) error {
	delete(f.deadlines, id)
	return nil
}

func (f *fakeDeadlineRepo) MarkCalendarSynced(_ context.Context, id uuid.UUID, googleEventID string) error {
	if d, ok := f.deadlines[id]; ok {
		d.CalendarSynced = true
		d.GoogleEventID = &googleEventID
	}
	return nil
}

type fakeBridge struct {
	insertErr error
	deleteErr error
	inserted  []provider.EventInput
	deleted   []string
	eventID   string
}

func (f *fakeBridge) InsertEvent(_ context.Context, _ string, in provider.EventInput) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, in)
	return f.eventID, nil
}

func (f *fakeBridge) DeleteEvent(_ context.Context, _, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func createReq() *dto.CreateDeadlineRequest {
	return &dto.CreateDeadlineRequest{
		Title:      "Grade midterms",
		CourseName: "Algebra II",
		DueDate:    time.Date(2026, 9, 15, 17, 0, 0, 0, time.UTC),
	}
}

func TestCreateDeadlineMirrorsToCalendar(t *testing.T) {
	repo := newFakeDeadlineRepo()
	bridge := &fakeBridge{eventID: "gcal-evt-1"}
	svc := NewDeadlineService(repo, bridge)

	deadline, appErr := svc.Create(context.Background(), "t1", createReq())

	require.Nil(t, appErr)
	assert.True(t, deadline.CalendarSynced)
	require.NotNil(t, deadline.GoogleEventID)
	assert.Equal(t, "gcal-evt-1", *deadline.GoogleEventID)

	require.Len(t, bridge.inserted, 1)
	assert.Equal(t, "[Deadline] Grade midterms", bridge.inserted[0].Summary)
	assert.Equal(t, deadline.DueDate, bridge.inserted[0].Start)
	assert.Equal(t, deadline.DueDate.Add(time.Hour), bridge.inserted[0].End)

	stored := repo.deadlines[deadline.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.CalendarSynced)
}

func TestCreateDeadlineSurvivesBridgeFailure(t *testing.T) {
	repo := newFakeDeadlineRepo()
	bridge := &fakeBridge{insertErr: provider.ErrNotConnected}
	svc := NewDeadlineService(repo, bridge)

	deadline, appErr := svc.Create(context.Background(), "t1", createReq())

	require.Nil(t, appErr, "a calendar failure must not fail the create")
	assert.False(t, deadline.CalendarSynced)
	assert.Nil(t, deadline.GoogleEventID)
	assert.Len(t, repo.deadlines, 1)
}

func TestCreateDeadlineValidation(t *testing.T) {
	svc := NewDeadlineService(newFakeDeadlineRepo(), &fakeBridge{})

	noTitle := createReq()
	noTitle.Title = ""
	_, appErr := svc.Create(context.Background(), "t1", noTitle)
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrInvalidInput, appErr.Code)

	noDue := createReq()
	noDue.DueDate = time.Time{}
	_, appErr = svc.Create(context.Background(), "t1", noDue)
	require.NotNil(t, appErr)

	badPriority := createReq()
	badPriority.Priority = "urgent"
	_, appErr = svc.Create(context.Background(), "t1", badPriority)
	require.NotNil(t, appErr)
}

func TestCreateDeadlineDefaultsPriority(t *testing.T) {
	svc := NewDeadlineService(newFakeDeadlineRepo(), &fakeBridge{eventID: "e"})

	deadline, appErr := svc.Create(context.Background(), "t1", createReq())

	require.Nil(t, appErr)
	assert.Equal(t, entity.PriorityMedium, deadline.Priority)
}

func TestUpdateDeadlineNotFound(t *testing.T) {
	svc := NewDeadlineService(newFakeDeadlineRepo(), &fakeBridge{})

	_, appErr := svc.Update(context.Background(), "t1", uuid.New(), &dto.UpdateDeadlineRequest{})

	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrNotFound, appErr.Code)
}

func TestUpdateDeadlinePartialFields(t *testing.T) {
	repo := newFakeDeadlineRepo()
	svc := NewDeadlineService(repo, &fakeBridge{eventID: "e"})

	created, appErr := svc.Create(context.Background(), "t1", createReq())
	require.Nil(t, appErr)

	newTitle := "Grade finals"
	updated, appErr := svc.Update(context.Background(), "t1", created.ID, &dto.UpdateDeadlineRequest{Title: &newTitle})

	require.Nil(t, appErr)
	assert.Equal(t, "Grade finals", updated.Title)
	assert.Equal(t, created.CourseName, updated.CourseName, "untouched fields keep their values")
}

func TestDeleteDeadlineRemovesMirroredEvent(t *testing.T) {
	repo := newFakeDeadlineRepo()
	bridge := &fakeBridge{eventID: "gcal-evt-7"}
	svc := NewDeadlineService(repo, bridge)

	created, appErr := svc.Create(context.Background(), "t1", createReq())
	require.Nil(t, appErr)

	appErr = svc.Delete(context.Background(), "t1", created.ID)

	require.Nil(t, appErr)
	assert.Empty(t, repo.deadlines)
	assert.Equal(t, []string{"gcal-evt-7"}, bridge.deleted)
}

func TestDeleteDeadlineSurvivesBridgeFailure(t *testing.T) {
	repo := newFakeDeadlineRepo()
	bridge := &fakeBridge{eventID: "gcal-evt-8"}
	svc := NewDeadlineService(repo, bridge)

	created, appErr := svc.Create(context.Background(), "t1", createReq())
	require.Nil(t, appErr)

	bridge.deleteErr = errors.New("google is down")
	appErr = svc.Delete(context.Background(), "t1", created.ID)

	require.Nil(t, appErr, "losing the calendar event cleanup must not block the delete")
	assert.Empty(t, repo.deadlines)
}

func TestDeleteDeadlineWrongTeacher(t *testing.T) {
	repo := newFakeDeadlineRepo()
	svc := NewDeadlineService(repo, &fakeBridge{eventID: "e"})

	created, appErr := svc.Create(context.Background(), "t1", createReq())
	require.Nil(t, appErr)

	appErr = svc.Delete(context.Background(), "someone-else", created.ID)

	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrNotFound, appErr.Code)
	assert.Len(t, repo.deadlines, 1)
}
