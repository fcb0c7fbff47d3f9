package controller

import (
	"net/http"

	"deadline-tracker/core/errors"

	"github.com/labstack/echo/v4"
)

type BaseController struct{}

func NewBaseController() BaseController {
	return BaseController{}
}

type SuccessResponseBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (c *BaseController) SuccessResponse(ctx echo.Context, data interface{}, message string) error {
	return ctx.JSON(http.StatusOK, SuccessResponseBody{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (c *BaseController) CreatedResponse(ctx echo.Context, data interface{}, message string) error {
	return ctx.JSON(http.StatusCreated, SuccessResponseBody{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (c *BaseController) BadRequest(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.NewAppError(code, message, err))
}

func (c *BaseController) Unauthorized(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.NewAppError(code, message, err))
}

func (c *BaseController) Forbidden(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusForbidden, errors.NewAppError(code, message, err))
}

func (c *BaseController) NotFound(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusNotFound, errors.NewAppError(code, message, err))
}

func (c *BaseController) Conflict(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusConflict, errors.NewAppError(code, message, err))
}

func (c *BaseController) BadGateway(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusBadGateway, errors.NewAppError(code, message, err))
}

func (c *BaseController) InternalServerError(code errors.ErrorCode, message string, err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, errors.NewAppError(code, message, err))
}

// HandleAppError maps a service error to the matching HTTP response. Services
// return *errors.AppError with a stable code, so controllers do not have to
// repeat the mapping per endpoint.
func (c *BaseController) HandleAppError(err *errors.AppError) error {
	switch err.Code {
	case errors.ErrInvalidInput, errors.ErrInvalidRequestData:
		return c.BadRequest(err.Code, err.Message, err.Err)
	case errors.ErrUnauthorized, errors.ErrTokenExpired, errors.ErrInvalidTokenFormat, errors.ErrMissingAuthorizationHeader:
		return c.Unauthorized(err.Code, err.Message, err.Err)
	case errors.ErrForbidden:
		return c.Forbidden(err.Code, err.Message, err.Err)
	case errors.ErrNotFound:
		return c.NotFound(err.Code, err.Message, err.Err)
	case errors.ErrAlreadyExists:
		return c.Conflict(err.Code, err.Message, err.Err)
	case errors.ErrProviderNotConnected, errors.ErrNoCalendarLinked:
		return c.BadRequest(err.Code, err.Message, err.Err)
	case errors.ErrProviderUnavailable:
		return c.BadGateway(err.Code, err.Message, err.Err)
	default:
		return c.InternalServerError(err.Code, err.Message, err.Err)
	}
}
