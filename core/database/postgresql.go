package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/core/constants"
	"deadline-tracker/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	SQLx() *sqlx.DB
}

type Database struct {
	db   *sql.DB
	sqlx *sqlx.DB
}

func InitDB(cfg config.DatabaseConfig) (*Database, error) {
	logger.Info("Initializing database...")

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &Database{
		db:   sqlDB,
		sqlx: sqlxDB,
	}

	if err := db.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info("Database initialized successfully",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"user", cfg.User,
	)

	return db, nil
}

// ensureSchema creates the tables this service owns when they do not exist
// yet. external_events is keyed by (teacher_id, composite_id) so that
// repeated syncs overwrite records in place instead of duplicating them.
func (d *Database) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS teachers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			google_access_token TEXT,
			google_refresh_token TEXT,
			google_token_expiry TIMESTAMPTZ,
			calendar_connected BOOLEAN NOT NULL DEFAULT FALSE,
			linked_calendar_id TEXT,
			auto_sync_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			outlook_access_token TEXT,
			outlook_refresh_token TEXT,
			outlook_token_expiry TIMESTAMPTZ,
			outlook_calendar_connected BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ical_feeds (
			id TEXT PRIMARY KEY,
			teacher_id TEXT NOT NULL REFERENCES teachers(id),
			url TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT 'External iCal',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS external_events (
			teacher_id TEXT NOT NULL REFERENCES teachers(id),
			composite_id TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			description TEXT,
			start_at TEXT NOT NULL,
			end_at TEXT NOT NULL DEFAULT '',
			html_link TEXT,
			source TEXT NOT NULL,
			feed_id TEXT,
			synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (teacher_id, composite_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_external_events_start
			ON external_events (teacher_id, start_at)`,
		`CREATE TABLE IF NOT EXISTS deadlines (
			id UUID PRIMARY KEY,
			teacher_id TEXT NOT NULL REFERENCES teachers(id),
			title TEXT NOT NULL,
			course_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			due_date TIMESTAMPTZ NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium',
			reminder_seven_day BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_three_day BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_one_day BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_six_hour BOOLEAN NOT NULL DEFAULT FALSE,
			calendar_synced BOOLEAN NOT NULL DEFAULT FALSE,
			google_event_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range schema {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, query, args...)
	return err
}

func (d *Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d *Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

func (d *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

func (d *Database) NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error) {
	return d.sqlx.NamedQueryContext(ctx, query, arg)
}

func (d *Database) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return d.sqlx.NamedExecContext(ctx, query, arg)
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}
