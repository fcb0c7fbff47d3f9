package service

import (
	"context"
	stderrors "errors"
	"time"

	"deadline-tracker/core/cache"
	"deadline-tracker/core/config"
	"deadline-tracker/core/constants"
	"deadline-tracker/core/logger"
	"deadline-tracker/modules/calendar/provider"
	"deadline-tracker/modules/calendar/repository"
	teacherentity "deadline-tracker/modules/teacher/entity"
)

// Narrow views of the providers so tests can substitute fakes.
type googleEventSource interface {
	ListEvents(ctx context.Context, teacherID string, timeMin, timeMax time.Time) ([]provider.Event, error)
}

type outlookEventSource interface {
	ListEvents(ctx context.Context, teacherID string) ([]provider.Event, error)
}

type icalEventSource interface {
	FetchFeedEvents(ctx context.Context, feedID, feedURL string) ([]provider.Event, error)
}

type teacherLoader interface {
	GetByID(ctx context.Context, id string) (*teacherentity.Teacher, error)
}

// SyncService pulls events from every configured source into the local
// store. Each source runs in its own failure boundary: one provider being
// down never blocks the others, and a sync run never fails as a whole
// because of a stage error.
type SyncService struct {
	google   googleEventSource
	outlook  outlookEventSource
	ical     icalEventSource
	teachers teacherLoader
	repo     repository.ICalendarRepository
	cache    cache.ICache
}

func NewSyncService(
	google googleEventSource,
	outlook outlookEventSource,
	ical icalEventSource,
	teachers teacherLoader,
	repo repository.ICalendarRepository,
	c cache.ICache,
) *SyncService {
	return &SyncService{
		google:   google,
		outlook:  outlook,
		ical:     ical,
		teachers: teachers,
		repo:     repo,
		cache:    c,
	}
}

// SyncTeacher runs one full sync pass for a teacher. The auto-sync flag is
// the master gate: when it is off, nothing is fetched and nothing is
// written. Stage errors are logged and swallowed.
func (s *SyncService) SyncTeacher(ctx context.Context, teacherID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.SyncRunTimeout)
	defer cancel()

	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		logger.Error("SyncService:SyncTeacher:LoadTeacher:Error:", err)
		return err
	}
	if teacher == nil {
		logger.Warn("SyncService:SyncTeacher:UnknownTeacher", "teacher_id", teacherID)
		return nil
	}
	if !teacher.AutoSyncEnabled {
		logger.Debug("SyncService:SyncTeacher:AutoSyncDisabled", "teacher_id", teacherID)
		return nil
	}

	s.syncGoogle(ctx, teacher)
	s.syncOutlook(ctx, teacher)
	s.syncFeeds(ctx, teacher)

	if err := s.cache.SetLastSyncAt(ctx, teacherID, time.Now()); err != nil {
		logger.Warn("SyncService:SyncTeacher:RecordLastSync:Error:", err)
	}
	return nil
}

func (s *SyncService) syncGoogle(ctx context.Context, teacher *teacherentity.Teacher) {
	if !teacher.CalendarConnected {
		return
	}

	stageCtx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	now := time.Now()
	window := time.Duration(config.Get().Sync.WindowDays) * 24 * time.Hour
	events, err := s.google.ListEvents(stageCtx, teacher.ID, now, now.Add(window))
	if err != nil {
		s.logStageError(constants.SourceGoogle, teacher.ID, err)
		return
	}

	s.upsertStage(ctx, teacher.ID, constants.SourceGoogle, events)
}

func (s *SyncService) syncOutlook(ctx context.Context, teacher *teacherentity.Teacher) {
	if !teacher.OutlookCalendarConnected {
		return
	}

	stageCtx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	events, err := s.outlook.ListEvents(stageCtx, teacher.ID)
	if err != nil {
		s.logStageError(constants.SourceOutlook, teacher.ID, err)
		return
	}

	s.upsertStage(ctx, teacher.ID, constants.SourceOutlook, events)
}

// syncFeeds fetches every registered feed. A dead feed is skipped; the
// remaining feeds still land in the same stage batch.
func (s *SyncService) syncFeeds(ctx context.Context, teacher *teacherentity.Teacher) {
	feeds, err := s.repo.ListFeeds(ctx, teacher.ID)
	if err != nil {
		logger.Error("SyncService:SyncFeeds:ListFeeds:Error:", err)
		return
	}
	if len(feeds) == 0 {
		return
	}

	var events []provider.Event
	for _, feed := range feeds {
		stageCtx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
		feedEvents, err := s.ical.FetchFeedEvents(stageCtx, feed.ID, feed.URL)
		cancel()
		if err != nil {
			logger.Warn("SyncService:SyncFeeds:FetchFailed",
				"teacher_id", teacher.ID, "feed_id", feed.ID, "error", err)
			continue
		}
		events = append(events, feedEvents...)
	}

	s.upsertStage(ctx, teacher.ID, constants.SourceICal, events)
}

// upsertStage drops malformed events and commits the batch.
func (s *SyncService) upsertStage(ctx context.Context, teacherID, source string, events []provider.Event) {
	valid := events[:0]
	dropped := 0
	for _, ev := range events {
		if ev.ID == "" || ev.Start == "" {
			dropped++
			continue
		}
		valid = append(valid, ev)
	}
	if dropped > 0 {
		logger.Warn("SyncService:UpsertStage:DroppedMalformed",
			"teacher_id", teacherID, "source", source, "dropped", dropped)
	}
	if len(valid) == 0 {
		return
	}

	if err := s.repo.UpsertExternalEvents(ctx, teacherID, valid); err != nil {
		logger.Error("SyncService:UpsertStage:Error:", err)
		return
	}
	logger.Info("SyncService:UpsertStage:Done",
		"teacher_id", teacherID, "source", source, "count", len(valid))
}

func (s *SyncService) logStageError(source, teacherID string, err error) {
	if stderrors.Is(err, provider.ErrNotConnected) || stderrors.Is(err, provider.ErrNoCalendarLinked) {
		logger.Debug("SyncService:StageSkipped", "source", source, "teacher_id", teacherID, "reason", err)
		return
	}
	logger.Error("SyncService:StageFailed", "source", source, "teacher_id", teacherID, "error", err)
}
