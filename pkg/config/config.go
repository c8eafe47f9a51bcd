package config

import (
	"fmt"
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/client"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	BookingRateLimitRequests int
	BookingRateLimitWindow   time.Duration
	RateLimitMaxClients      int
	RateLimitSweepInterval   time.Duration
	TrustProxyHeaders        bool

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	ResendAPIKey            string
	EmailFrom               string
	EmailOperatorRecipients []string
	EmailSendTimeout        time.Duration
	EmailSendRate           int

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateStatsPrefix string
	RateStatsTTL    time.Duration

	KafkaBookingTopic    string
	KafkaBookingDLQTopic string

	AdminSessionKey string
	AdminSessionTTL time.Duration

	CORSAllowOrigin string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BookingRateLimitRequests: getEnvNum(EnvBookingRateLimitRequests, DefaultBookingRateLimitRequests),
		BookingRateLimitWindow:   getEnvDuration(EnvBookingRateLimitWindow, DefaultBookingRateLimitWindow),
		RateLimitMaxClients:      getEnvNum(EnvRateLimitMaxClients, DefaultRateLimitMaxClients),
		RateLimitSweepInterval:   getEnvDuration(EnvRateLimitSweepInterval, DefaultRateLimitSweepInterval),
		TrustProxyHeaders:        getEnvBool(EnvTrustProxyHeaders, DefaultTrustProxyHeaders),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		ResendAPIKey:            getEnvStr(EnvResendAPIKey, ""),
		EmailFrom:               getEnvStr(EnvEmailFrom, DefaultEmailFrom),
		EmailOperatorRecipients: getEnvList(EnvEmailOperatorRecipients, DefaultEmailOperatorRecipients),
		EmailSendTimeout:        getEnvDuration(EnvEmailSendTimeout, DefaultEmailSendTimeout),
		EmailSendRate:           getEnvNum(EnvEmailSendRate, DefaultEmailSendRate),

		RedisAddr:       getEnvStr(EnvRedisAddr, ""),
		RedisPassword:   getEnvStr(EnvRedisPassword, ""),
		RedisDB:         getEnvNum(EnvRedisDB, DefaultRedisDB),
		RateStatsPrefix: getEnvStr(EnvRateStatsPrefix, DefaultRateStatsPrefix),
		RateStatsTTL:    getEnvDuration(EnvRateStatsTTL, DefaultRateStatsTTL),

		KafkaBookingTopic:    getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),
		KafkaBookingDLQTopic: getEnvStr(EnvKafkaBookingDLQTopic, ""),

		AdminSessionKey: getEnvStr(EnvAdminSessionKey, ""),
		AdminSessionTTL: getEnvDuration(EnvAdminSessionTTL, DefaultAdminSessionTTL),

		CORSAllowOrigin: getEnvStr(EnvCORSAllowOrigin, DefaultCORSAllowOrigin),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the admission statistics store. A blank REDIS_ADDR
// leaves the client nil and the caller falls back to in-memory stats.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis address not configured, admission stats kept in memory")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.BookingRateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("BookingRateLimitRequests must be positive, got: %d", cfg.BookingRateLimitRequests))
	}
	if cfg.BookingRateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("BookingRateLimitWindow must be positive, got: %s", cfg.BookingRateLimitWindow))
	}
	if cfg.RateLimitMaxClients <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitMaxClients must be positive, got: %d", cfg.RateLimitMaxClients))
	}
	if cfg.RateLimitSweepInterval <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitSweepInterval must be positive, got: %s", cfg.RateLimitSweepInterval))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if _, err := mail.ParseAddress(cfg.EmailFrom); err != nil {
		errors = append(errors, fmt.Sprintf("EmailFrom must be a valid address, got: %s", cfg.EmailFrom))
	}
	if len(cfg.EmailOperatorRecipients) == 0 {
		errors = append(errors, "EmailOperatorRecipients must list at least one address")
	}
	for i, addr := range cfg.EmailOperatorRecipients {
		if _, err := mail.ParseAddress(addr); err != nil {
			errors = append(errors, fmt.Sprintf("EmailOperatorRecipients[%d] is not a valid address: %s", i, addr))
		}
	}
	if cfg.EmailSendTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("EmailSendTimeout must be positive, got: %s", cfg.EmailSendTimeout))
	}
	if cfg.EmailSendRate <= 0 {
		errors = append(errors, fmt.Sprintf("EmailSendRate must be positive, got: %d", cfg.EmailSendRate))
	}
	if cfg.RequestTimeout <= cfg.EmailSendTimeout {
		errors = append(errors, fmt.Sprintf("RequestTimeout (%s) must be greater than EmailSendTimeout (%s)", cfg.RequestTimeout, cfg.EmailSendTimeout))
	}

	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}
	if cfg.RateStatsTTL <= 0 {
		errors = append(errors, fmt.Sprintf("RateStatsTTL must be positive, got: %s", cfg.RateStatsTTL))
	}

	if cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty")
	}
	if cfg.AdminSessionTTL <= 0 {
		errors = append(errors, fmt.Sprintf("AdminSessionTTL must be positive, got: %s", cfg.AdminSessionTTL))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"booking_rate_limit_requests", cfg.BookingRateLimitRequests,
		"booking_rate_limit_window", cfg.BookingRateLimitWindow,
		"rate_limit_max_clients", cfg.RateLimitMaxClients,
		"rate_limit_sweep_interval", cfg.RateLimitSweepInterval,
		"trust_proxy_headers", cfg.TrustProxyHeaders,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"resend_api_key_set", cfg.ResendAPIKey != "",
		"email_from", cfg.EmailFrom,
		"email_operator_recipients", cfg.EmailOperatorRecipients,
		"email_send_timeout", cfg.EmailSendTimeout,
		"email_send_rate", cfg.EmailSendRate,
		"redis_addr", cfg.RedisAddr,
		"rate_stats_prefix", cfg.RateStatsPrefix,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"admin_session_key_set", cfg.AdminSessionKey != "",
		"cors_allow_origin", cfg.CORSAllowOrigin,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), fallback...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
