package server

import (
	"fmt"
	"net/http"

	"deadline-tracker/core/cache"
	"deadline-tracker/core/config"
	"deadline-tracker/core/database"
	"deadline-tracker/core/logger"
	"deadline-tracker/core/middleware"
	"deadline-tracker/modules/auth"
	"deadline-tracker/modules/calendar"
	"deadline-tracker/modules/deadline"
	"deadline-tracker/modules/teacher"
	"deadline-tracker/worker"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run boots the whole service: config, database, redis, the asynq worker
// and scheduler, then the HTTP server. Blocks until the HTTP server exits.
func Run() error {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	c, err := cache.InitCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	taskClient := worker.NewClient(worker.NewRedisOpt(cfg.Redis))
	defer taskClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(ctx echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("HTTP:Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
	e.Use(echomw.CORS())

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(c)
	api := e.Group("/api/v1")

	teacherRepo := teacher.Init(api, db, c, mw)
	syncSvc, google := calendar.Init(api, db, c, teacherRepo, taskClient, mw)
	auth.Init(e, teacherRepo, taskClient)
	deadline.Init(api, db, google, mw)

	processor := worker.NewProcessor(syncSvc, teacherRepo, taskClient)
	go func() {
		if err := worker.RunServer(cfg.Redis, processor); err != nil {
			logger.Error("Worker:Server:Error:", err)
		}
	}()
	go func() {
		if err := worker.RunScheduler(cfg.Redis); err != nil {
			logger.Error("Worker:Scheduler:Error:", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server starting", "addr", addr)
	return e.Start(addr)
}
