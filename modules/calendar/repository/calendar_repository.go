package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"deadline-tracker/core/database"
	"deadline-tracker/core/logger"
	"deadline-tracker/modules/calendar/entity"
	"deadline-tracker/modules/calendar/provider"
)

type ICalendarRepository interface {
	UpsertExternalEvents(ctx context.Context, teacherID string, events []provider.Event) error
	ListExternalEvents(ctx context.Context, teacherID, since string, limit int) ([]entity.ExternalEvent, error)
	CreateFeed(ctx context.Context, feed *entity.ICalFeed) error
	GetFeed(ctx context.Context, teacherID, feedID string) (*entity.ICalFeed, error)
	ListFeeds(ctx context.Context, teacherID string) ([]entity.ICalFeed, error)
	DeleteFeed(ctx context.Context, teacherID, feedID string) error
}

type CalendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// UpsertExternalEvents writes one provider batch in a single transaction.
// Conflicts on (teacher_id, composite_id) overwrite the row in place, which
// makes repeated syncs idempotent.
func (r *CalendarRepository) UpsertExternalEvents(ctx context.Context, teacherID string, events []provider.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("CalendarRepository:UpsertExternalEvents:Begin:Error:", err)
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO external_events
			(teacher_id, composite_id, summary, description, start_at, end_at, html_link, source, feed_id, synced_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), NOW())
		ON CONFLICT (teacher_id, composite_id) DO UPDATE
		SET summary = EXCLUDED.summary,
		    description = EXCLUDED.description,
		    start_at = EXCLUDED.start_at,
		    end_at = EXCLUDED.end_at,
		    html_link = EXCLUDED.html_link,
		    source = EXCLUDED.source,
		    feed_id = EXCLUDED.feed_id,
		    synced_at = NOW()
	`

	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, query,
			teacherID, ev.ID, ev.Summary, ev.Description, ev.Start, ev.End, ev.HTMLLink, ev.Source, ev.FeedID,
		); err != nil {
			logger.Error("CalendarRepository:UpsertExternalEvents:Exec:Error:", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CalendarRepository:UpsertExternalEvents:Commit:Error:", err)
		return err
	}
	return nil
}

// ListExternalEvents returns stored events starting at or after since,
// ascending. start_at holds RFC 3339 text so string comparison orders
// correctly.
func (r *CalendarRepository) ListExternalEvents(ctx context.Context, teacherID, since string, limit int) ([]entity.ExternalEvent, error) {
	var events []entity.ExternalEvent
	query := `
		SELECT * FROM external_events
		WHERE teacher_id = $1 AND start_at >= $2
		ORDER BY start_at ASC
		LIMIT $3
	`
	err := r.db.SelectContext(ctx, &events, query, teacherID, since, limit)
	if err != nil {
		logger.Error("CalendarRepository:ListExternalEvents:Error:", err)
		return nil, err
	}
	return events, nil
}

func (r *CalendarRepository) CreateFeed(ctx context.Context, feed *entity.ICalFeed) error {
	query := `
		INSERT INTO ical_feeds (id, teacher_id, url, label, created_at)
		VALUES (:id, :teacher_id, :url, :label, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, feed)
	if err != nil {
		logger.Error("CalendarRepository:CreateFeed:Error:", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) GetFeed(ctx context.Context, teacherID, feedID string) (*entity.ICalFeed, error) {
	var feed entity.ICalFeed
	query := `SELECT * FROM ical_feeds WHERE id = $1 AND teacher_id = $2`
	err := r.db.GetContext(ctx, &feed, query, feedID, teacherID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetFeed:Error:", err)
		return nil, err
	}
	return &feed, nil
}

func (r *CalendarRepository) ListFeeds(ctx context.Context, teacherID string) ([]entity.ICalFeed, error) {
	var feeds []entity.ICalFeed
	query := `SELECT * FROM ical_feeds WHERE teacher_id = $1 ORDER BY created_at`
	err := r.db.SelectContext(ctx, &feeds, query, teacherID)
	if err != nil {
		logger.Error("CalendarRepository:ListFeeds:Error:", err)
		return nil, err
	}
	return feeds, nil
}

// DeleteFeed removes the feed and its synced events in one transaction so a
// removed feed does not keep ghost rows in the unified list.
func (r *CalendarRepository) DeleteFeed(ctx context.Context, teacherID, feedID string) error {
	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("CalendarRepository:DeleteFeed:Begin:Error:", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM external_events WHERE teacher_id = $1 AND feed_id = $2`, teacherID, feedID); err != nil {
		logger.Error("CalendarRepository:DeleteFeed:Events:Error:", err)
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ical_feeds WHERE teacher_id = $1 AND id = $2`, teacherID, feedID); err != nil {
		logger.Error("CalendarRepository:DeleteFeed:Feed:Error:", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CalendarRepository:DeleteFeed:Commit:Error:", err)
		return err
	}
	return nil
}
