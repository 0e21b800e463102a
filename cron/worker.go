package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"keyhubcentral/config"
	"keyhubcentral/services/rating"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task types handled by the background worker.
const (
	TypeJobCompleted       = "rating:job_completed"
	TypeExpireOverdueSweep = "rating:expire_overdue"
)

// expireSweepInterval is how often pending requests past their deadline get
// flipped to expired. Readers expire lazily anyway; the sweep keeps listing
// queries honest.
const expireSweepInterval = "@every 1h"

type jobCompletedPayload struct {
	JobID string `json:"jobId"`
}

// NewJobCompletedTask builds the task queued when a job reaches its terminal
// complete state.
func NewJobCompletedTask(jobID string) (*asynq.Task, error) {
	payload, err := json.Marshal(jobCompletedPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job-completed payload: %w", err)
	}
	return asynq.NewTask(TypeJobCompleted, payload, asynq.MaxRetry(5)), nil
}

// redisOpts builds the asynq Redis connection from app config.
func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the client handlers enqueue tasks with.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitWorker starts the background worker and the periodic expiry sweep.
func InitWorker(lifecycle *rating.LifecycleService, logger *zap.Logger) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeJobCompleted, handleJobCompleted(lifecycle, logger))
	mux.HandleFunc(TypeExpireOverdueSweep, handleExpireSweep(lifecycle, logger))

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("async worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					logger.Fatal("async worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()

	startExpireScheduler(logger)
}

// startExpireScheduler registers the recurring expiry sweep.
func startExpireScheduler(logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts(), nil)
	task := asynq.NewTask(TypeExpireOverdueSweep, nil)
	if _, err := scheduler.Register(expireSweepInterval, task); err != nil {
		logger.Error("failed to register expiry sweep", zap.Error(err))
		return
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("expiry scheduler stopped", zap.Error(err))
		}
	}()
}

func handleJobCompleted(lifecycle *rating.LifecycleService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload jobCompletedPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("bad job-completed payload: %v: %w", err, asynq.SkipRetry)
		}
		created, err := lifecycle.HandleJobCompleted(ctx, payload.JobID)
		if err != nil {
			return err
		}
		logger.Info("rating requests created",
			zap.String("jobId", payload.JobID), zap.Int("count", len(created)))
		return nil
	}
}

func handleExpireSweep(lifecycle *rating.LifecycleService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		expired, err := lifecycle.ExpireOverdue(ctx)
		if err != nil {
			return err
		}
		if expired > 0 {
			logger.Info("expired overdue rating requests", zap.Int64("count", expired))
		}
		return nil
	}
}
