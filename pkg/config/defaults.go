package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "opendoor"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultBookingRateLimitRequests = 3
	DefaultBookingRateLimitWindow   = 60 * time.Second
	DefaultRateLimitMaxClients      = 10000
	DefaultRateLimitSweepInterval   = 1 * time.Minute

	// With proxy headers trusted the client key is the first X-Forwarded-For
	// hop, which the caller controls. Rotating it resets the quota unless the
	// edge proxy overwrites the header; set TRUST_PROXY_HEADERS=false when the
	// service is reachable directly.
	DefaultTrustProxyHeaders = true

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultEmailFrom        = "Open Door Professionals <noreply@opendoorpro.com>"
	DefaultEmailSendTimeout = 10 * time.Second
	DefaultEmailSendRate    = 2

	DefaultRedisDB         = 0
	DefaultRateStatsPrefix = "booking_gate"
	DefaultRateStatsTTL    = 24 * time.Hour

	DefaultKafkaBookingTopic = "booking-events"

	DefaultAdminSessionTTL = 12 * time.Hour

	DefaultCORSAllowOrigin = "*"

	DefaultPaginationLimit = 100
)

var DefaultEmailOperatorRecipients = []string{"Sales@opendoorpro.com", "admin@opendoorpro.com"}
