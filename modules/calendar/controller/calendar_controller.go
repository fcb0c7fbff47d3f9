package controller

import (
	"time"

	"deadline-tracker/core/controller"
	"deadline-tracker/core/errors"
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/calendar/dto"
	"deadline-tracker/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	calendarService *service.CalendarService
	controller.BaseController
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{
		calendarService: calendarService,
		BaseController:  controller.NewBaseController(),
	}
}

// ListCalendars returns the teacher's writable Google calendars.
func (c *CalendarController) ListCalendars(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	calendars, appErr := c.calendarService.ListCalendars(ctx.Request().Context(), teacherID)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, calendars, "Calendars retrieved successfully")
}

// SelectCalendar links a Google calendar and turns auto sync on.
func (c *CalendarController) SelectCalendar(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.SelectCalendarRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if appErr := c.calendarService.SelectCalendar(ctx.Request().Context(), teacherID, req.CalendarID); appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar linked successfully")
}

// ListEvents serves the unified event list from the local store. The
// optional since parameter is RFC 3339; it defaults to the start of today.
func (c *CalendarController) ListEvents(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	since := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := ctx.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "since must be RFC 3339", err)
		}
		since = parsed
	}

	result, appErr := c.calendarService.ListUnifiedEvents(ctx.Request().Context(), teacherID, since)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// LinkFeed registers an external iCal feed.
func (c *CalendarController) LinkFeed(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.LinkFeedRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	feed, appErr := c.calendarService.LinkFeed(ctx.Request().Context(), teacherID, req.ICalURL, req.Label)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.CreatedResponse(ctx, feed, "Feed linked successfully")
}

func (c *CalendarController) ListFeeds(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	feeds, appErr := c.calendarService.ListFeeds(ctx.Request().Context(), teacherID)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, feeds, "Feeds retrieved successfully")
}

func (c *CalendarController) UnlinkFeed(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	if appErr := c.calendarService.UnlinkFeed(ctx.Request().Context(), teacherID, ctx.Param("feedId")); appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, nil, "Feed removed successfully")
}

// CronSync fans out background sync tasks for every auto-sync teacher. The
// route sits behind the cron-secret middleware.
func (c *CalendarController) CronSync(ctx echo.Context) error {
	enqueued, appErr := c.calendarService.CronFanout(ctx.Request().Context())
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, dto.CronSyncResponse{Enqueued: enqueued}, "Sync tasks enqueued")
}
