package constants

import "time"

// Database pool settings.
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// DefaultTimeout bounds any single service-level operation.
const DefaultTimeout = 30 * time.Second

// Sync tunables. Page size and window are deliberately generous: the low
// caps in earlier revisions silently truncated busy calendars.
const (
	DefaultSyncPageSize   = 500
	DefaultSyncWindowDays = 30
	ProviderCallTimeout   = 30 * time.Second
	SyncRunTimeout        = 2 * time.Minute
	UnifiedEventLimit     = 1000
)

// Redis key prefixes.
const (
	RedisKeyTokenBlacklist = "token_blacklist:"
	RedisKeyLastSync       = "last_sync:"
)

// Event sources.
const (
	SourceGoogle  = "google"
	SourceOutlook = "outlook"
	SourceICal    = "ical"
)
