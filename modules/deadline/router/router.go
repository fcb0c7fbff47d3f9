package router

import (
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/deadline/controller"

	"github.com/labstack/echo/v4"
)

type DeadlineRouter struct {
	controller *controller.DeadlineController
}

func NewDeadlineRouter(controller *controller.DeadlineController) *DeadlineRouter {
	return &DeadlineRouter{controller: controller}
}

func (r *DeadlineRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/private/deadlines", mw.AuthMiddleware())
	group.POST("", r.controller.Create)
	group.GET("", r.controller.List)
	group.PUT("/:id", r.controller.Update)
	group.DELETE("/:id", r.controller.Delete)
}
