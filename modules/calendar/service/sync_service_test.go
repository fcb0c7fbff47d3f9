package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/modules/calendar/entity"
	"deadline-tracker/modules/calendar/provider"
	teacherentity "deadline-tracker/modules/teacher/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(config.Reset)
}

type fakeGoogleSource struct {
	events []provider.Event
	err    error
	calls  int
}

func (f *fakeGoogleSource) ListEvents(_ context.Context, _ string, _, _ time.Time) ([]provider.Event, error) {
	f.calls++
	return f.events, f.err
}

type fakeOutlookSource struct {
	events []provider.Event
	err    error
	calls  int
}

func (f *fakeOutlookSource) ListEvents(_ context.Context, _ string) ([]provider.Event, error) {
	f.calls++
	return f.events, f.err
}

type fakeICalSource struct {
	// eventsByURL drives per-feed results; an entry with err set fails.
	eventsByURL map[string][]provider.Event
	errsByURL   map[string]error
}

func (f *fakeICalSource) FetchFeedEvents(_ context.Context, _, feedURL string) ([]provider.Event, error) {
	if err := f.errsByURL[feedURL]; err != nil {
		return nil, err
	}
	return f.eventsByURL[feedURL], nil
}

type fakeTeacherLoader struct {
	teacher *teacherentity.Teacher
	err     error
}

func (f *fakeTeacherLoader) GetByID(_ context.Context, _ string) (*teacherentity.Teacher, error) {
	return f.teacher, f.err
}

type fakeCalendarRepo struct {
	events      map[string]provider.Event
	generation  map[string]int
	feeds       []entity.ICalFeed
	upsertCalls int
	listErr     error
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		events:     map[string]provider.Event{},
		generation: map[string]int{},
	}
}

func (f *fakeCalendarRepo) UpsertExternalEvents(_ context.Context, _ string, events []provider.Event) error {
	f.upsertCalls++
	for _, ev := range events {
		f.events[ev.ID] = ev
		f.generation[ev.ID]++
	}
	return nil
}

func (f *fakeCalendarRepo) ListExternalEvents(_ context.Context, _, _ string, _ int) ([]entity.ExternalEvent, error) {
	return nil, f.listErr
}

func (f *fakeCalendarRepo) CreateFeed(_ context.Context, feed *entity.ICalFeed) error {
	f.feeds = append(f.feeds, *feed)
	return nil
}

func (f *fakeCalendarRepo) GetFeed(_ context.Context, _, feedID string) (*entity.ICalFeed, error) {
	for _, feed := range f.feeds {
		if feed.ID == feedID {
			return &feed, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) ListFeeds(_ context.Context, _ string) ([]entity.ICalFeed, error) {
	return f.feeds, nil
}

func (f *fakeCalendarRepo) DeleteFeed(_ context.Context, _, feedID string) error {
	kept := f.feeds[:0]
	for _, feed := range f.feeds {
		if feed.ID != feedID {
			kept = append(kept, feed)
		}
	}
	f.feeds = kept
	return nil
}

type fakeCache struct {
	lastSync map[string]time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{lastSync: map[string]time.Time{}}
}

func (f *fakeCache) BlacklistToken(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeCache) SetLastSyncAt(_ context.Context, teacherID string, at time.Time) error {
	f.lastSync[teacherID] = at
	return nil
}

func (f *fakeCache) GetLastSyncAt(_ context.Context, teacherID string) (time.Time, bool, error) {
	at, ok := f.lastSync[teacherID]
	return at, ok, nil
}

func (f *fakeCache) Close() error { return nil }

func strPtr(s string) *string { return &s }

func connectedTeacher() *teacherentity.Teacher {
	return &teacherentity.Teacher{
		ID:                       "t1",
		CalendarConnected:        true,
		OutlookCalendarConnected: true,
		AutoSyncEnabled:          true,
		LinkedCalendarID:         strPtr("cal-1"),
		GoogleAccessToken:        strPtr("at"),
		GoogleRefreshToken:       strPtr("rt"),
		OutlookRefreshToken:      strPtr("ort"),
	}
}

func TestSyncTeacherIdempotentUpsert(t *testing.T) {
	loadTestConfig(t)

	google := &fakeGoogleSource{events: []provider.Event{
		{ID: "google_a", Summary: "A", Start: "2026-09-01T10:00:00Z", Source: "google"},
		{ID: "google_b", Summary: "B", Start: "2026-09-02T10:00:00Z", Source: "google"},
	}}
	repo := newFakeCalendarRepo()
	svc := NewSyncService(google, &fakeOutlookSource{}, &fakeICalSource{},
		&fakeTeacherLoader{teacher: connectedTeacher()}, repo, newFakeCache())

	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))
	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))

	assert.Len(t, repo.events, 2, "second run must not duplicate rows")
	assert.Equal(t, 2, repo.generation["google_a"], "second run rewrites the row in place")
}

func TestSyncTeacherSourceIsolation(t *testing.T) {
	loadTestConfig(t)

	google := &fakeGoogleSource{err: errors.New("google is down")}
	outlook := &fakeOutlookSource{events: []provider.Event{
		{ID: "outlook_x", Summary: "X", Start: "2026-09-01T09:00:00Z", Source: "outlook"},
	}}
	repo := newFakeCalendarRepo()
	repo.feeds = []entity.ICalFeed{{ID: "f1", TeacherID: "t1", URL: "https://feeds.test/a.ics"}}
	ical := &fakeICalSource{eventsByURL: map[string][]provider.Event{
		"https://feeds.test/a.ics": {{ID: "ical_f1_u1", Summary: "U", Start: "2026-09-03T09:00:00Z", Source: "ical", FeedID: "f1"}},
	}}

	svc := NewSyncService(google, outlook, ical,
		&fakeTeacherLoader{teacher: connectedTeacher()}, repo, newFakeCache())

	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))

	assert.Contains(t, repo.events, "outlook_x")
	assert.Contains(t, repo.events, "ical_f1_u1")
	assert.NotContains(t, repo.events, "google_a")
}

func TestSyncTeacherAutoSyncDisabled(t *testing.T) {
	loadTestConfig(t)

	teacher := connectedTeacher()
	teacher.AutoSyncEnabled = false
	google := &fakeGoogleSource{events: []provider.Event{
		{ID: "google_a", Start: "2026-09-01T10:00:00Z", Source: "google"},
	}}
	repo := newFakeCalendarRepo()
	cache := newFakeCache()
	svc := NewSyncService(google, &fakeOutlookSource{}, &fakeICalSource{},
		&fakeTeacherLoader{teacher: teacher}, repo, cache)

	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))

	assert.Zero(t, google.calls, "disabled auto-sync must not touch providers")
	assert.Zero(t, repo.upsertCalls)
	assert.Empty(t, cache.lastSync)
}

func TestSyncTeacherUnknownTeacher(t *testing.T) {
	loadTestConfig(t)

	repo := newFakeCalendarRepo()
	svc := NewSyncService(&fakeGoogleSource{}, &fakeOutlookSource{}, &fakeICalSource{},
		&fakeTeacherLoader{teacher: nil}, repo, newFakeCache())

	require.NoError(t, svc.SyncTeacher(context.Background(), "missing"))
	assert.Zero(t, repo.upsertCalls)
}

func TestSyncTeacherDeadFeedSkipped(t *testing.T) {
	loadTestConfig(t)

	teacher := connectedTeacher()
	teacher.CalendarConnected = false
	teacher.OutlookCalendarConnected = false

	repo := newFakeCalendarRepo()
	repo.feeds = []entity.ICalFeed{
		{ID: "dead", TeacherID: "t1", URL: "https://feeds.test/dead.ics"},
		{ID: "live", TeacherID: "t1", URL: "https://feeds.test/live.ics"},
	}
	ical := &fakeICalSource{
		errsByURL: map[string]error{
			"https://feeds.test/dead.ics": &provider.FeedFetchError{URL: "https://feeds.test/dead.ics", Err: errors.New("404")},
		},
		eventsByURL: map[string][]provider.Event{
			"https://feeds.test/live.ics": {{ID: "ical_live_1", Start: "2026-09-05T08:00:00Z", Source: "ical", FeedID: "live"}},
		},
	}

	svc := NewSyncService(&fakeGoogleSource{}, &fakeOutlookSource{}, ical,
		&fakeTeacherLoader{teacher: teacher}, repo, newFakeCache())

	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))

	assert.Contains(t, repo.events, "ical_live_1")
	assert.Len(t, repo.events, 1)
}

func TestSyncTeacherDropsMalformedEvents(t *testing.T) {
	loadTestConfig(t)

	google := &fakeGoogleSource{events: []provider.Event{
		{ID: "google_ok", Summary: "OK", Start: "2026-09-01T10:00:00Z", Source: "google"},
		{ID: "google_nostart", Summary: "No start", Source: "google"},
		{ID: "", Summary: "No id", Start: "2026-09-01T11:00:00Z", Source: "google"},
	}}
	repo := newFakeCalendarRepo()
	svc := NewSyncService(google, &fakeOutlookSource{}, &fakeICalSource{},
		&fakeTeacherLoader{teacher: connectedTeacher()}, repo, newFakeCache())

	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))

	assert.Len(t, repo.events, 1)
	assert.Contains(t, repo.events, "google_ok")
}

func TestSyncTeacherRecordsLastSync(t *testing.T) {
	loadTestConfig(t)

	cache := newFakeCache()
	svc := NewSyncService(&fakeGoogleSource{}, &fakeOutlookSource{}, &fakeICalSource{},
		&fakeTeacherLoader{teacher: connectedTeacher()}, newFakeCalendarRepo(), cache)

	require.NoError(t, svc.SyncTeacher(context.Background(), "t1"))

	_, ok := cache.lastSync["t1"]
	assert.True(t, ok)
}
