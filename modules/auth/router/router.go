package router

import (
	"deadline-tracker/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

// Register mounts the OAuth flows at the root. OAuth redirect URIs are
// registered with the providers without the versioned API prefix.
func (r *AuthRouter) Register(e *echo.Echo) {
	group := e.Group("/auth")
	group.GET("/google", r.controller.GoogleAuth)
	group.GET("/google/callback", r.controller.GoogleCallback)
	group.GET("/outlook", r.controller.OutlookAuth)
	group.GET("/outlook/callback", r.controller.OutlookCallback)
}
