package controller

import (
	"deadline-tracker/core/controller"
	"deadline-tracker/core/errors"
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/deadline/dto"
	"deadline-tracker/modules/deadline/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DeadlineController struct {
	service *service.DeadlineService
	controller.BaseController
}

func NewDeadlineController(service *service.DeadlineService) *DeadlineController {
	return &DeadlineController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *DeadlineController) Create(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateDeadlineRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	deadline, appErr := c.service.Create(ctx.Request().Context(), teacherID, req)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.CreatedResponse(ctx, deadline, "Deadline created successfully")
}

func (c *DeadlineController) List(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	deadlines, appErr := c.service.List(ctx.Request().Context(), teacherID)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, deadlines, "Deadlines retrieved successfully")
}

func (c *DeadlineController) Update(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid deadline id", err)
	}

	req := new(dto.UpdateDeadlineRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	deadline, appErr := c.service.Update(ctx.Request().Context(), teacherID, id, req)
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, deadline, "Deadline updated successfully")
}

func (c *DeadlineController) Delete(ctx echo.Context) error {
	teacherID, ok := middleware.TeacherIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid deadline id", err)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), teacherID, id); appErr != nil {
		return c.HandleAppError(appErr)
	}
	return c.SuccessResponse(ctx, nil, "Deadline deleted successfully")
}
