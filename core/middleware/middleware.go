package middleware

import (
	"net/http"
	"strings"

	"deadline-tracker/core/cache"
	"deadline-tracker/core/config"
	"deadline-tracker/core/errors"
	"deadline-tracker/core/logger"
	"deadline-tracker/core/utils"

	"github.com/labstack/echo/v4"
)

// ContextTeacherIDKey is the echo context key the auth middleware stores the
// authenticated teacher id under.
const ContextTeacherIDKey = "teacher_id"

type Middleware struct {
	cache cache.ICache
}

func NewMiddleware(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the bearer token, rejects blacklisted tokens and
// stores the teacher id on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, appErr := bearerToken(ctx)
			if appErr != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, appErr)
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(ctx.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:BlacklistCheck:Error:", err)
				} else if blacklisted {
					return echo.NewHTTPError(http.StatusUnauthorized,
						errors.NewAppError(errors.ErrUnauthorized, "Token has been revoked", nil))
				}
			}

			tokenData, appErr := utils.ValidateAndParseToken(token)
			if appErr != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, appErr)
			}

			ctx.Set(ContextTeacherIDKey, tokenData.TeacherID)
			return next(ctx)
		}
	}
}

// CronMiddleware guards internal scheduler endpoints with a shared secret.
// The caller must send Authorization: Bearer <CRON_SECRET>.
func (m *Middleware) CronMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			secret := config.Get().Cron.Secret
			if secret == "" {
				return echo.NewHTTPError(http.StatusForbidden,
					errors.NewAppError(errors.ErrForbidden, "Cron endpoint is disabled", nil))
			}

			token, appErr := bearerToken(ctx)
			if appErr != nil || token != secret {
				return echo.NewHTTPError(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrUnauthorized, "Invalid cron secret", nil))
			}
			return next(ctx)
		}
	}
}

func bearerToken(ctx echo.Context) (string, *errors.AppError) {
	header := ctx.Request().Header.Get("Authorization")
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "Missing Authorization header", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "Authorization header must be Bearer token", nil)
	}
	return parts[1], nil
}

// TeacherIDFromContext returns the teacher id set by AuthMiddleware.
func TeacherIDFromContext(ctx echo.Context) (string, bool) {
	id, ok := ctx.Get(ContextTeacherIDKey).(string)
	return id, ok && id != ""
}
