package cron

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"motorbook/config"
	"motorbook/services/booking"
	"motorbook/services/tasks"
	"motorbook/utils"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

// NewTaskClient returns the asynq client used to enqueue follow-up tasks.
func NewTaskClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitAvailabilityWorker runs the async worker in the background. It handles
// snapshot refresh tasks enqueued after confirmed bookings.
func InitAvailabilityWorker(avail booking.AvailabilityService) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAvailabilityRefresh, func(ctx context.Context, t *asynq.Task) error {
		if err := avail.Refresh(ctx); err != nil {
			logger.Warn("availability refresh task failed", zap.Error(err))
			return err
		}
		logger.Debug("availability snapshot refreshed")
		return nil
	})

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("availability worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					logger.Fatal("availability worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()
}
