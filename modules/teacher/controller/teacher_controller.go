package controller

import (
	"strings"
	"time"

	"deadline-tracker/core/cache"
	"deadline-tracker/core/controller"
	"deadline-tracker/core/errors"
	"deadline-tracker/core/middleware"
	"deadline-tracker/core/utils"
	"deadline-tracker/modules/teacher/dto"
	"deadline-tracker/modules/teacher/service"

	"github.com/labstack/echo/v4"
)

type TeacherController struct {
	service *service.TeacherService
	cache   cache.ICache
	controller.BaseController
}

func NewTeacherController(service *service.TeacherService, c cache.ICache) *TeacherController {
	return &TeacherController{
		service:        service,
		cache:          c,
		BaseController: controller.NewBaseController(),
	}
}

// Register creates a teacher account and returns an access token.
func (c *TeacherController) Register(ctx echo.Context) error {
	req := new(dto.RegisterTeacherRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Register(ctx.Request().Context(), req)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.CreatedResponse(ctx, result, "Teacher registered successfully")
}

// Me returns the authenticated teacher's profile including provider
// connection state.
func (c *TeacherController) Me(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	profile, appErr := c.service.GetProfile(ctx.Request().Context(), teacherID)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, profile, "Profile retrieved successfully")
}

// Logout invalidates the current access token by blacklisting it until
// its natural expiry.
func (c *TeacherController) Logout(ctx echo.Context) error {
	header := ctx.Request().Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	data, appErr := utils.ValidateAndParseToken(token)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}

	ttl := time.Until(data.ExpiresAt)
	if ttl > 0 {
		if err := c.cache.BlacklistToken(ctx.Request().Context(), token, ttl); err != nil {
			return c.InternalServerError(errors.ErrInternalServer, "Failed to log out", nil)
		}
	}
	return c.SuccessResponse(ctx, nil, "Logged out successfully")
}
