package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "maitred"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTokenTTL   = 8 * time.Hour
	DefaultBcryptCost = 12

	DefaultTableCount           = 20
	DefaultPerGuestRate         = 25
	DefaultMinimumCharge        = 50
	DefaultDefaultDurationHours = 2

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisAddr            = "localhost:6379"
	DefaultAvailabilityCacheTTL = 30 * time.Second

	DefaultSMTPPort = 587

	DefaultPaginationLimit = 100
)
