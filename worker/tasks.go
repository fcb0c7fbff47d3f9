package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TypeSyncTeacher pulls all sources for one teacher.
	TypeSyncTeacher = "calendar:sync"
	// TypeSyncSweep fans out one TypeSyncTeacher task per auto-sync teacher.
	TypeSyncSweep = "calendar:sweep"
)

type SyncTeacherPayload struct {
	TeacherID string `json:"teacher_id"`
}

func NewSyncTeacherTask(teacherID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncTeacherPayload{TeacherID: teacherID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSyncTeacher, payload), nil
}

func NewSyncSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSyncSweep, nil)
}
