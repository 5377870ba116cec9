package tasks

import (
	"time"

	"github.com/hibiken/asynq"
)

// TypeAvailabilityRefresh re-fetches the availability snapshot. Enqueued after
// a confirmed booking, since the new booking may have exhausted its date
// upstream.
const TypeAvailabilityRefresh = "availability:refresh"

func NewAvailabilityRefreshTask(delay time.Duration) (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeAvailabilityRefresh, nil)
	opts := []asynq.Option{asynq.ProcessIn(delay)}
	return task, opts
}
