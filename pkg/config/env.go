package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret  = "JWT_SECRET"
	EnvTokenTTL   = "TOKEN_TTL"
	EnvBcryptCost = "BCRYPT_COST"

	EnvTableCount           = "TABLE_COUNT"
	EnvPerGuestRate         = "PER_GUEST_RATE"
	EnvMinimumCharge        = "MINIMUM_CHARGE"
	EnvDefaultDurationHours = "DEFAULT_DURATION_HOURS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr            = "REDIS_ADDR"
	EnvRedisPassword        = "REDIS_PASSWORD"
	EnvRedisDB              = "REDIS_DB"
	EnvAvailabilityCacheTTL = "AVAILABILITY_CACHE_TTL"

	EnvSMTPHost  = "SMTP_HOST"
	EnvSMTPPort  = "SMTP_PORT"
	EnvSMTPUser  = "SMTP_USERNAME"
	EnvSMTPPass  = "SMTP_PASSWORD"
	EnvFromEmail = "FROM_EMAIL"
)
