package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/core/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	blacklisted map[string]bool
}

func (f *fakeCache) BlacklistToken(_ context.Context, token string, _ time.Duration) error {
	f.blacklisted[token] = true
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}

func (f *fakeCache) SetLastSyncAt(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *fakeCache) GetLastSyncAt(_ context.Context, _ string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func (f *fakeCache) Close() error { return nil }

func setup(t *testing.T) (*echo.Echo, *Middleware, *fakeCache) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CRON_SECRET", "cron-secret")
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(config.Reset)

	cache := &fakeCache{blacklisted: map[string]bool{}}
	return echo.New(), NewMiddleware(cache), cache
}

func run(e *echo.Echo, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(ctx); err != nil {
		e.HTTPErrorHandler(err, ctx)
	}
	return rec, ctx
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	e, mw, _ := setup(t)

	token, err := utils.GenerateToken("teacher-1", time.Hour)
	require.NoError(t, err)

	rec, ctx := run(e, mw.AuthMiddleware(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	id, ok := TeacherIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "teacher-1", id)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	e, mw, _ := setup(t)

	rec, _ := run(e, mw.AuthMiddleware(), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	e, mw, _ := setup(t)

	rec, _ := run(e, mw.AuthMiddleware(), "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	e, mw, _ := setup(t)

	token, err := utils.GenerateToken("teacher-1", -time.Minute)
	require.NoError(t, err)

	rec, _ := run(e, mw.AuthMiddleware(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareBlacklistedToken(t *testing.T) {
	e, mw, cache := setup(t)

	token, err := utils.GenerateToken("teacher-1", time.Hour)
	require.NoError(t, err)
	cache.blacklisted[token] = true

	rec, _ := run(e, mw.AuthMiddleware(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronMiddleware(t *testing.T) {
	e, mw, _ := setup(t)

	rec, _ := run(e, mw.CronMiddleware(), "Bearer cron-secret")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = run(e, mw.CronMiddleware(), "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = run(e, mw.CronMiddleware(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronMiddlewareDisabledWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CRON_SECRET", "")
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(config.Reset)

	e := echo.New()
	mw := NewMiddleware(&fakeCache{blacklisted: map[string]bool{}})

	rec, _ := run(e, mw.CronMiddleware(), "Bearer anything")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
