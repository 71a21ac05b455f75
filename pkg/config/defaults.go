package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "chefly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Reminder scheduler: scan every 15 minutes for bookings approaching
	// the 24h / 2h / 30m marks.
	DefaultSchedulerPeriod = 15 * time.Minute
	DefaultReminderOffsets = "24h,2h,30m"
	DefaultDispatchTimeout = 10 * time.Second
	DefaultScanLockTTL     = 5 * time.Minute

	DefaultPaginationLimit = 50
)
