package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSchedulerPeriod   = "REMINDER_SCAN_PERIOD"
	EnvReminderOffsets   = "REMINDER_OFFSETS"
	EnvDispatchTimeout   = "REMINDER_DISPATCH_TIMEOUT"
	EnvScanLockTTL       = "REMINDER_SCAN_LOCK_TTL"
	EnvSchedulerDisabled = "REMINDER_SCHEDULER_DISABLED"
)
