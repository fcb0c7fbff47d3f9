package worker

import (
	"errors"
	"time"

	"deadline-tracker/core/logger"

	"github.com/hibiken/asynq"
)

// Client wraps the asynq client behind the enqueue methods the services
// use. It satisfies calendar/service.SyncEnqueuer.
type Client struct {
	inner *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{inner: asynq.NewClient(redisOpt)}
}

// EnqueueSyncTeacher schedules a background sync. Repeated triggers for the
// same teacher within a short window collapse into one task.
func (c *Client) EnqueueSyncTeacher(teacherID string) error {
	task, err := NewSyncTeacherTask(teacherID)
	if err != nil {
		return err
	}

	info, err := c.inner.Enqueue(task,
		asynq.TaskID(TypeSyncTeacher+":"+teacherID),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		// A duplicate task id means a sync is already queued, which is
		// exactly the collapse we want.
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return err
	}

	logger.Debug("Worker:EnqueueSyncTeacher", "teacher_id", teacherID, "task_id", info.ID)
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}
