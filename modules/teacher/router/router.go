package router

import (
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/teacher/controller"

	"github.com/labstack/echo/v4"
)

type TeacherRouter struct {
	controller *controller.TeacherController
}

func NewTeacherRouter(controller *controller.TeacherController) *TeacherRouter {
	return &TeacherRouter{controller: controller}
}

func (r *TeacherRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	e.POST("/teachers/register", r.controller.Register)

	private := e.Group("/private/teachers", mw.AuthMiddleware())
	private.GET("/me", r.controller.Me)
	private.POST("/logout", r.controller.Logout)
}
