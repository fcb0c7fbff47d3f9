package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"deadline-tracker/core/logger"
	calendarservice "deadline-tracker/modules/calendar/service"
	teacherentity "deadline-tracker/modules/teacher/entity"

	"github.com/hibiken/asynq"
)

type autoSyncLister interface {
	ListAutoSyncEnabled(ctx context.Context) ([]teacherentity.Teacher, error)
}

// Processor holds the task handlers the asynq server dispatches to.
type Processor struct {
	sync     *calendarservice.SyncService
	teachers autoSyncLister
	client   *Client
}

func NewProcessor(sync *calendarservice.SyncService, teachers autoSyncLister, client *Client) *Processor {
	return &Processor{sync: sync, teachers: teachers, client: client}
}

func (p *Processor) HandleSyncTeacher(ctx context.Context, task *asynq.Task) error {
	var payload SyncTeacherPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w: %w", TypeSyncTeacher, err, asynq.SkipRetry)
	}
	if payload.TeacherID == "" {
		return fmt.Errorf("empty teacher id: %w", asynq.SkipRetry)
	}

	return p.sync.SyncTeacher(ctx, payload.TeacherID)
}

// HandleSyncSweep fans out one sync task per auto-sync teacher. The sweep
// itself does no provider work, so a huge teacher list stays cheap here.
func (p *Processor) HandleSyncSweep(ctx context.Context, _ *asynq.Task) error {
	teachers, err := p.teachers.ListAutoSyncEnabled(ctx)
	if err != nil {
		return err
	}

	for _, t := range teachers {
		if err := p.client.EnqueueSyncTeacher(t.ID); err != nil {
			logger.Error("Worker:HandleSyncSweep:Enqueue:Error:", err)
		}
	}

	logger.Info("Worker:HandleSyncSweep:Done", "teachers", len(teachers))
	return nil
}

// NewMux registers the handlers on an asynq mux.
func NewMux(p *Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSyncTeacher, p.HandleSyncTeacher)
	mux.HandleFunc(TypeSyncSweep, p.HandleSyncSweep)
	return mux
}
