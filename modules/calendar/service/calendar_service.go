package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"time"

	"deadline-tracker/core/cache"
	"deadline-tracker/core/constants"
	"deadline-tracker/core/errors"
	"deadline-tracker/core/logger"
	"deadline-tracker/core/utils"
	"deadline-tracker/modules/calendar/dto"
	"deadline-tracker/modules/calendar/entity"
	"deadline-tracker/modules/calendar/provider"
	"deadline-tracker/modules/calendar/repository"
	teacherentity "deadline-tracker/modules/teacher/entity"
)

const defaultFeedLabel = "External iCal"

// SyncEnqueuer schedules a background sync without blocking the request.
// The worker package provides the asynq-backed implementation.
type SyncEnqueuer interface {
	EnqueueSyncTeacher(teacherID string) error
}

type googleCalendarSource interface {
	ListCalendars(ctx context.Context, teacherID string) ([]provider.CalendarInfo, error)
}

type teacherCalendarStore interface {
	GetByID(ctx context.Context, id string) (*teacherentity.Teacher, error)
	SetLinkedCalendar(ctx context.Context, teacherID, calendarID string) error
	SetAutoSync(ctx context.Context, teacherID string, enabled bool) error
	ListAutoSyncEnabled(ctx context.Context) ([]teacherentity.Teacher, error)
}

// CalendarService owns the read side and the feed/calendar management
// operations. Reads never call providers: the dashboard gets whatever the
// store currently holds, while a background sync refreshes it.
type CalendarService struct {
	google   googleCalendarSource
	ical     icalEventSource
	teachers teacherCalendarStore
	repo     repository.ICalendarRepository
	cache    cache.ICache
	enqueuer SyncEnqueuer
}

func NewCalendarService(
	google googleCalendarSource,
	ical icalEventSource,
	teachers teacherCalendarStore,
	repo repository.ICalendarRepository,
	c cache.ICache,
	enqueuer SyncEnqueuer,
) *CalendarService {
	return &CalendarService{
		google:   google,
		ical:     ical,
		teachers: teachers,
		repo:     repo,
		cache:    c,
		enqueuer: enqueuer,
	}
}

// ListCalendars returns the teacher's writable Google calendars.
func (s *CalendarService) ListCalendars(ctx context.Context, teacherID string) ([]provider.CalendarInfo, *errors.AppError) {
	calendars, err := s.google.ListCalendars(ctx, teacherID)
	if err != nil {
		return nil, mapProviderError(err, "Failed to list calendars")
	}
	return calendars, nil
}

// SelectCalendar links the Google calendar, enables auto sync and kicks off
// an immediate background sync.
func (s *CalendarService) SelectCalendar(ctx context.Context, teacherID, calendarID string) *errors.AppError {
	if calendarID == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "calendar_id is required", nil)
	}

	if err := s.teachers.SetLinkedCalendar(ctx, teacherID, calendarID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to link calendar", err)
	}

	s.enqueueSync(teacherID)
	return nil
}

// ListUnifiedEvents is the store-only unified read. A teacher with no
// sources connected gets an empty list, never an error. The response carries
// the last completed sync time so the dashboard can show staleness.
func (s *CalendarService) ListUnifiedEvents(ctx context.Context, teacherID string, since time.Time) (*dto.UnifiedEventsResponse, *errors.AppError) {
	events, err := s.repo.ListExternalEvents(ctx, teacherID,
		since.UTC().Format(time.RFC3339), constants.UnifiedEventLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}
	if events == nil {
		events = []entity.ExternalEvent{}
	}

	resp := &dto.UnifiedEventsResponse{Events: events}
	if at, ok, err := s.cache.GetLastSyncAt(ctx, teacherID); err != nil {
		logger.Warn("CalendarService:ListUnifiedEvents:LastSync:Error:", err)
	} else if ok {
		resp.LastSyncedAt = &at
	}

	// Refresh in the background; the response never waits for providers.
	s.enqueueSync(teacherID)
	return resp, nil
}

// LinkFeed registers the feed and enables auto sync, then runs a best-effort
// initial fetch so a reachable feed shows up on the dashboard right away. The
// URL is not checked for reachability: a feed that is down at link time still
// registers and gets retried on the next sync.
func (s *CalendarService) LinkFeed(ctx context.Context, teacherID, feedURL, label string) (*entity.ICalFeed, *errors.AppError) {
	parsed, err := url.Parse(feedURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "ical_url must be an http(s) URL", err)
	}

	feedID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate feed id", err)
	}

	if label == "" {
		label = defaultFeedLabel
	}
	feed := &entity.ICalFeed{
		ID:        feedID,
		TeacherID: teacherID,
		URL:       feedURL,
		Label:     label,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateFeed(ctx, feed); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to register feed", err)
	}

	if err := s.teachers.SetAutoSync(ctx, teacherID, true); err != nil {
		logger.Warn("CalendarService:LinkFeed:EnableAutoSync:Error:", err)
	}

	events, err := s.ical.FetchFeedEvents(ctx, feedID, feedURL)
	if err != nil {
		logger.Warn("CalendarService:LinkFeed:InitialFetch:Error:", err)
		return feed, nil
	}
	if err := s.repo.UpsertExternalEvents(ctx, teacherID, events); err != nil {
		logger.Error("CalendarService:LinkFeed:InitialSync:Error:", err)
	}
	return feed, nil
}

func (s *CalendarService) ListFeeds(ctx context.Context, teacherID string) ([]entity.ICalFeed, *errors.AppError) {
	feeds, err := s.repo.ListFeeds(ctx, teacherID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list feeds", err)
	}
	if feeds == nil {
		feeds = []entity.ICalFeed{}
	}
	return feeds, nil
}

func (s *CalendarService) UnlinkFeed(ctx context.Context, teacherID, feedID string) *errors.AppError {
	feed, err := s.repo.GetFeed(ctx, teacherID, feedID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load feed", err)
	}
	if feed == nil {
		return errors.NewAppError(errors.ErrNotFound, "Feed not found", nil)
	}

	if err := s.repo.DeleteFeed(ctx, teacherID, feedID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete feed", err)
	}
	return nil
}

// CronFanout enqueues one sync task per auto-sync teacher and returns the
// number enqueued.
func (s *CalendarService) CronFanout(ctx context.Context) (int, *errors.AppError) {
	teachers, err := s.teachers.ListAutoSyncEnabled(ctx)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to list auto-sync teachers", err)
	}

	enqueued := 0
	for _, t := range teachers {
		if err := s.enqueuer.EnqueueSyncTeacher(t.ID); err != nil {
			logger.Error("CalendarService:CronFanout:Enqueue:Error:", err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}

func (s *CalendarService) enqueueSync(teacherID string) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueueSyncTeacher(teacherID); err != nil {
		logger.Warn("CalendarService:EnqueueSync:Error:", err)
	}
}

func mapProviderError(err error, message string) *errors.AppError {
	switch {
	case stderrors.Is(err, provider.ErrNotConnected):
		return errors.NewAppError(errors.ErrProviderNotConnected, "Calendar provider is not connected", err)
	case stderrors.Is(err, provider.ErrNoCalendarLinked):
		return errors.NewAppError(errors.ErrNoCalendarLinked, "No calendar has been selected", err)
	default:
		var provErr *provider.ProviderError
		if stderrors.As(err, &provErr) {
			return errors.NewAppError(errors.ErrProviderUnavailable, message, err)
		}
		return errors.NewAppError(errors.ErrInternalServer, message, err)
	}
}
