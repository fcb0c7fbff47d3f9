package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	teacherentity "deadline-tracker/modules/teacher/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeGoogleStore struct {
	teacher    *teacherentity.Teacher
	saves      int
	savedAT    string
	savedRT    string
	savedExp   time.Time
	connected  bool
	connectErr error
}

func (f *fakeGoogleStore) GetByID(_ context.Context, _ string) (*teacherentity.Teacher, error) {
	return f.teacher, nil
}

func (f *fakeGoogleStore) UpdateGoogleTokens(_ context.Context, _, accessToken, refreshToken string, expiry time.Time) error {
	f.saves++
	f.savedAT = accessToken
	f.savedRT = refreshToken
	f.savedExp = expiry
	return nil
}

func (f *fakeGoogleStore) ConnectGoogle(_ context.Context, _ string) error {
	f.connected = true
	return f.connectErr
}

type staticTokenSource struct {
	tok *oauth2.Token
	err error
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.tok, s.err
}

func googleTeacher() *teacherentity.Teacher {
	return &teacherentity.Teacher{
		ID:                 "t1",
		CalendarConnected:  true,
		GoogleAccessToken:  ptr("stored-access"),
		GoogleRefreshToken: ptr("stored-refresh"),
		LinkedCalendarID:   ptr("cal-1"),
	}
}

func TestPersistingTokenSourceWritesRefreshedToken(t *testing.T) {
	store := &fakeGoogleStore{}
	fresh := &oauth2.Token{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	src := &persistingTokenSource{
		src:       &staticTokenSource{tok: fresh},
		store:     store,
		teacherID: "t1",
		ctx:       context.Background(),
		last:      &oauth2.Token{AccessToken: "stored-access"},
	}

	tok, err := src.Token()

	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "new-access", store.savedAT)
	assert.Equal(t, "new-refresh", store.savedRT)

	// Same token again: no second write.
	_, err = src.Token()
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)
}

func TestPersistingTokenSourceSkipsUnchangedToken(t *testing.T) {
	store := &fakeGoogleStore{}
	same := &oauth2.Token{AccessToken: "stored-access"}
	src := &persistingTokenSource{
		src:       &staticTokenSource{tok: same},
		store:     store,
		teacherID: "t1",
		ctx:       context.Background(),
		last:      &oauth2.Token{AccessToken: "stored-access"},
	}

	_, err := src.Token()

	require.NoError(t, err)
	assert.Zero(t, store.saves)
}

func TestGoogleListEventsNotConnected(t *testing.T) {
	setupConfig(t)

	cases := []struct {
		name    string
		teacher *teacherentity.Teacher
	}{
		{"unknown teacher", nil},
		{"flag off", &teacherentity.Teacher{ID: "t1", GoogleAccessToken: ptr("a"), GoogleRefreshToken: ptr("r")}},
		{"missing tokens", &teacherentity.Teacher{ID: "t1", CalendarConnected: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewGoogleClient(&fakeGoogleStore{teacher: tc.teacher})

			_, err := client.ListEvents(context.Background(), "t1", time.Now(), time.Now().Add(time.Hour))

			assert.ErrorIs(t, err, ErrNotConnected)
		})
	}
}

func TestGoogleListEventsNoCalendarLinked(t *testing.T) {
	setupConfig(t)

	teacher := googleTeacher()
	teacher.LinkedCalendarID = nil
	expiry := time.Now().Add(time.Hour)
	teacher.GoogleTokenExpiry = &expiry

	client := NewGoogleClient(&fakeGoogleStore{teacher: teacher})

	_, err := client.ListEvents(context.Background(), "t1", time.Now(), time.Now().Add(time.Hour))

	assert.ErrorIs(t, err, ErrNoCalendarLinked)
}

func TestGoogleListCalendars(t *testing.T) {
	setupConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "calendarList")
		assert.Equal(t, "writer", r.URL.Query().Get("minAccessRole"))
		assert.Equal(t, "Bearer stored-access", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":"cal-1","summary":"Work","primary":true,"backgroundColor":"#4285f4"},
			{"id":"cal-2","summary":"Classes","backgroundColor":"#0b8043"}
		]}`))
	}))
	defer srv.Close()

	teacher := googleTeacher()
	expiry := time.Now().Add(time.Hour)
	teacher.GoogleTokenExpiry = &expiry

	client := NewGoogleClient(&fakeGoogleStore{teacher: teacher})
	client.endpoint = srv.URL

	calendars, err := client.ListCalendars(context.Background(), "t1")

	require.NoError(t, err)
	require.Len(t, calendars, 2)
	assert.Equal(t, CalendarInfo{ID: "cal-1", Summary: "Work", Primary: true, BackgroundColor: "#4285f4"}, calendars[0])
	assert.False(t, calendars[1].Primary)
}

func TestGoogleListEventsMapsItems(t *testing.T) {
	setupConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.Contains(r.URL.Path, "events"))

		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, "500", q.Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":"e1","summary":"Lecture","description":"Algebra",
			 "htmlLink":"https://calendar.example/e1",
			 "start":{"dateTime":"2026-09-01T10:00:00Z"},
			 "end":{"dateTime":"2026-09-01T11:00:00Z"}},
			{"id":"e2","summary":"All day",
			 "start":{"date":"2026-09-02"},
			 "end":{"date":"2026-09-03"}}
		]}`))
	}))
	defer srv.Close()

	teacher := googleTeacher()
	expiry := time.Now().Add(time.Hour)
	teacher.GoogleTokenExpiry = &expiry

	client := NewGoogleClient(&fakeGoogleStore{teacher: teacher})
	client.endpoint = srv.URL

	events, err := client.ListEvents(context.Background(), "t1", time.Now(), time.Now().Add(24*time.Hour))

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "google_e1", events[0].ID)
	assert.Equal(t, "Lecture", events[0].Summary)
	assert.Equal(t, "2026-09-01T10:00:00Z", events[0].Start)
	assert.Equal(t, "google", events[0].Source)
	assert.Equal(t, "2026-09-02", events[1].Start, "all-day events keep the date form")
}
