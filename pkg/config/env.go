package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvBookingRateLimitRequests = "BOOKING_RATE_LIMIT_REQUESTS"
	EnvBookingRateLimitWindow   = "BOOKING_RATE_LIMIT_WINDOW"
	EnvRateLimitMaxClients      = "RATE_LIMIT_MAX_CLIENTS"
	EnvRateLimitSweepInterval   = "RATE_LIMIT_SWEEP_INTERVAL"
	EnvTrustProxyHeaders        = "TRUST_PROXY_HEADERS"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvResendAPIKey            = "RESEND_API_KEY"
	EnvEmailFrom               = "EMAIL_FROM"
	EnvEmailOperatorRecipients = "EMAIL_OPERATOR_RECIPIENTS"
	EnvEmailSendTimeout        = "EMAIL_SEND_TIMEOUT"
	EnvEmailSendRate           = "EMAIL_SEND_RATE"

	EnvRedisAddr       = "REDIS_ADDR"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvRedisDB         = "REDIS_DB"
	EnvRateStatsPrefix = "RATE_STATS_PREFIX"
	EnvRateStatsTTL    = "RATE_STATS_TTL"

	EnvKafkaBookingTopic    = "KAFKA_BOOKING_TOPIC"
	EnvKafkaBookingDLQTopic = "KAFKA_BOOKING_DLQ_TOPIC"

	EnvAdminSessionKey = "ADMIN_SESSION_KEY"
	EnvAdminSessionTTL = "ADMIN_SESSION_TTL"

	EnvCORSAllowOrigin = "CORS_ALLOW_ORIGIN"
)
