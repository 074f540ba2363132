// Package constants provides centralized definitions of constants used throughout the application
package constants

// Database environment variable names
const (
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
	EnvDBSSLMode  = "DB_SSL_MODE"
	// EnvDBAutoMigrate toggles gorm auto-migration on startup
	EnvDBAutoMigrate = "DB_AUTO_MIGRATE"
)

// Server environment variable names
const (
	// EnvListenAddr is the address the API server binds to
	EnvListenAddr = "APPLYTRACK_LISTEN_ADDR"
	// EnvStoreTimeout bounds every store transaction, as a Go duration
	EnvStoreTimeout = "APPLYTRACK_STORE_TIMEOUT"
	// EnvTimelineTZ is the IANA zone used for daily timeline day boundaries
	EnvTimelineTZ = "APPLYTRACK_TIMELINE_TZ"
	// EnvHotSweepSchedule is the cron expression for the stale hot sweep; empty disables it
	EnvHotSweepSchedule = "APPLYTRACK_HOT_SWEEP_SCHEDULE"
	// EnvRateLimit is the per-owner request rate per second; 0 disables limiting
	EnvRateLimit = "APPLYTRACK_RATE_LIMIT"
	// EnvRateBurst is the per-owner burst size
	EnvRateBurst = "APPLYTRACK_RATE_BURST"
	// EnvLogLevel is the logrus level name
	EnvLogLevel = "LOG_LEVEL"
	// EnvLogFormat is json or text
	EnvLogFormat = "LOG_FORMAT"
)

// CLI environment variable names
const (
	// EnvServerAddress overrides the CLI's target API server
	EnvServerAddress = "APPLYTRACK_SERVER_ADDRESS"
	// EnvOwnerID supplies the CLI's owner id when the flag is absent
	EnvOwnerID = "APPLYTRACK_OWNER_ID"
)

// HeaderOwnerID carries the pre-authenticated owner id on every API request
const HeaderOwnerID = "X-Owner-ID"

// HeaderRequestID carries the request correlation id
const HeaderRequestID = "X-Request-ID"
