package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "zinbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultServiceTimeZone    = "Europe/London"
	DefaultBookingHorizonDays = 30
	DefaultSlotDurationMin    = 30
	DefaultSlotLockTTL        = 10 * time.Second

	DefaultBookingEventsTopic = "zinbook.booking.events"

	DefaultSMTPPort = 587
	DefaultMailFrom = "Zinthiya Trust <noreply@zinthiyatrust.org>"

	DefaultPaginationLimit = 100
)
