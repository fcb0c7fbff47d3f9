package auth

import (
	"deadline-tracker/modules/auth/controller"
	"deadline-tracker/modules/auth/router"
	"deadline-tracker/modules/auth/service"
	"deadline-tracker/modules/calendar/provider"
	calendarservice "deadline-tracker/modules/calendar/service"
	teacherrepo "deadline-tracker/modules/teacher/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, teacherRepo *teacherrepo.TeacherRepository, enqueuer calendarservice.SyncEnqueuer) {
	google := provider.NewGoogleClient(teacherRepo)
	outlook := provider.NewOutlookClient(teacherRepo)

	svc := service.NewAuthService(google, outlook, enqueuer)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(e)
}
