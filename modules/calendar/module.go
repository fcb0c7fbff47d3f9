package calendar

import (
	"deadline-tracker/core/cache"
	"deadline-tracker/core/database"
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/calendar/controller"
	"deadline-tracker/modules/calendar/provider"
	"deadline-tracker/modules/calendar/repository"
	"deadline-tracker/modules/calendar/router"
	"deadline-tracker/modules/calendar/service"
	teacherrepo "deadline-tracker/modules/teacher/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the calendar module and returns the pieces other modules and
// the worker depend on: the sync service for task handlers and the Google
// client for the deadline bridge.
func Init(
	e *echo.Group,
	db database.IDatabase,
	c cache.ICache,
	teacherRepo *teacherrepo.TeacherRepository,
	enqueuer service.SyncEnqueuer,
	mw *middleware.Middleware,
) (*service.SyncService, *provider.GoogleClient) {
	repo := repository.NewCalendarRepository(db)

	google := provider.NewGoogleClient(teacherRepo)
	outlook := provider.NewOutlookClient(teacherRepo)
	ical := provider.NewICalClient()

	syncSvc := service.NewSyncService(google, outlook, ical, teacherRepo, repo, c)
	calendarSvc := service.NewCalendarService(google, ical, teacherRepo, repo, c, enqueuer)

	ctrl := controller.NewCalendarController(calendarSvc)
	router.NewCalendarRouter(ctrl).Register(e, mw)

	return syncSvc, google
}
