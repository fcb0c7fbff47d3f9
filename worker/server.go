package worker

import (
	"deadline-tracker/core/config"
	"deadline-tracker/core/logger"

	"github.com/hibiken/asynq"
)

const sweepSchedule = "@every 1h"

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewRedisOpt exposes the asynq redis options built from app config.
func NewRedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return redisOpt(cfg)
}

// RunServer starts the in-process task server. Blocks until shutdown.
func RunServer(cfg config.RedisConfig, p *Processor) error {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
	})

	logger.Info("Worker:Server:Starting")
	return srv.Run(NewMux(p))
}

// RunScheduler registers the hourly sweep and blocks until shutdown.
func RunScheduler(cfg config.RedisConfig) error {
	scheduler := asynq.NewScheduler(redisOpt(cfg), nil)

	if _, err := scheduler.Register(sweepSchedule, NewSyncSweepTask()); err != nil {
		return err
	}

	logger.Info("Worker:Scheduler:Starting", "schedule", sweepSchedule)
	return scheduler.Run()
}
