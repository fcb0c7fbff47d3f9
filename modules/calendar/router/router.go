package router

import (
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{controller: controller}
}

func (r *CalendarRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/private/calendar", mw.AuthMiddleware())
	group.GET("/list", r.controller.ListCalendars)
	group.POST("/select", r.controller.SelectCalendar)
	group.GET("/events", r.controller.ListEvents)
	group.POST("/ical/link", r.controller.LinkFeed)
	group.GET("/ical/list", r.controller.ListFeeds)
	group.DELETE("/ical/:feedId", r.controller.UnlinkFeed)

	cron := e.Group("/cron", mw.CronMiddleware())
	cron.GET("/sync", r.controller.CronSync)
}
