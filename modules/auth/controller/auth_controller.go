package controller

import (
	"net/http"

	"deadline-tracker/core/config"
	"deadline-tracker/core/controller"
	"deadline-tracker/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service *service.AuthService
	controller.BaseController
}

func NewAuthController(service *service.AuthService) *AuthController {
	return &AuthController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GoogleAuth redirects the browser to Google's consent screen.
func (c *AuthController) GoogleAuth(ctx echo.Context) error {
	authURL, appErr := c.service.GoogleAuthURL(ctx.QueryParam("teacherId"))
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return ctx.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback lands the teacher back on the frontend settings page with
// a query flag describing the outcome.
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	frontend := config.Get().FrontendURL

	appErr := c.service.HandleGoogleCallback(
		ctx.Request().Context(),
		ctx.QueryParam("code"),
		ctx.QueryParam("state"),
	)
	if appErr != nil {
		return ctx.Redirect(http.StatusTemporaryRedirect, frontend+"/settings?calendar_error=true")
	}
	return ctx.Redirect(http.StatusTemporaryRedirect, frontend+"/settings?calendar_connected=true")
}

// OutlookAuth redirects the browser to the Microsoft consent screen.
func (c *AuthController) OutlookAuth(ctx echo.Context) error {
	authURL, appErr := c.service.OutlookAuthURL(ctx.QueryParam("teacherId"))
	if appErr != nil {
		return c.HandleAppError(appErr)
	}
	return ctx.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (c *AuthController) OutlookCallback(ctx echo.Context) error {
	frontend := config.Get().FrontendURL

	appErr := c.service.HandleOutlookCallback(
		ctx.Request().Context(),
		ctx.QueryParam("code"),
		ctx.QueryParam("state"),
	)
	if appErr != nil {
		return ctx.Redirect(http.StatusTemporaryRedirect, frontend+"/settings?error=outlook_auth_failed")
	}
	return ctx.Redirect(http.StatusTemporaryRedirect, frontend+"/settings?outlook_connected=true")
}
