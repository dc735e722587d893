package constants

import "time"

const (
	AppName            = "daystreak"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/daystreak/daystreak.db"
	DefaultConfigDir   = "~/.config/daystreak"
	Version            = "v0.1.0"

	// DateFormat is the canonical day key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is used for every persisted instant
	TimestampFormat = time.RFC3339

	// Environment variables
	EnvConnection = "DAYSTREAK_DB_CONNECTION"
	EnvUser       = "DAYSTREAK_USER"
	EnvTimezone   = "DAYSTREAK_TIMEZONE"

	// Streak grace window: a run is current when its last day is today or yesterday
	StreakGraceDays = 1

	// Trailing window for the weekly completion rate, today included
	WeeklyWindowDays = 7

	// Goal / challenge limits
	MinGoalTarget        = 1
	MinChallengeDays     = 3
	MaxChallengeDuration = 365

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daystreak-"
	BackupFileSuffix = ".db"

	// Connection pool settings for PostgreSQL
	PostgresMaxOpenConns    = 25
	PostgresMaxIdleConns    = 25
	PostgresConnMaxLifetime = 5 * time.Minute

	// SQLite busy timeout in milliseconds
	SQLiteBusyTimeoutMs = 5000
)
