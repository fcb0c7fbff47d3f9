package teacher

import (
	"deadline-tracker/core/cache"
	"deadline-tracker/core/database"
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/teacher/controller"
	"deadline-tracker/modules/teacher/repository"
	"deadline-tracker/modules/teacher/router"
	"deadline-tracker/modules/teacher/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, c cache.ICache, mw *middleware.Middleware) *repository.TeacherRepository {
	repo := repository.NewTeacherRepository(db)
	svc := service.NewTeacherService(repo)
	ctrl := controller.NewTeacherController(svc, c)

	router.NewTeacherRouter(ctrl).Register(e, mw)

	return repo
}
