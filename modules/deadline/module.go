package deadline

import (
	"deadline-tracker/core/database"
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/calendar/provider"
	"deadline-tracker/modules/deadline/controller"
	"deadline-tracker/modules/deadline/repository"
	"deadline-tracker/modules/deadline/router"
	"deadline-tracker/modules/deadline/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, google *provider.GoogleClient, mw *middleware.Middleware) {
	repo := repository.NewDeadlineRepository(db)
	svc := service.NewDeadlineService(repo, google)
	ctrl := controller.NewDeadlineController(svc)

	router.NewDeadlineRouter(ctrl).Register(e, mw)
}
