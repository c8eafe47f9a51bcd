package main

import (
	"net/http"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/admin/auth"
	adminhandler "github.com/odp-Dev/opendoor-growth-hub-main/internal/admin/handler"
	adminrepo "github.com/odp-Dev/opendoor-growth-hub-main/internal/admin/repository"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/events"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/handler"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/repository"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/service"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/validator"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/app"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/config"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/contracts"
	httputil "github.com/odp-Dev/opendoor-growth-hub-main/pkg/http"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/kafka"
	kafka_config "github.com/odp-Dev/opendoor-growth-hub-main/pkg/kafka/config"
	kafka_middleware "github.com/odp-Dev/opendoor-growth-hub-main/pkg/kafka/middleware"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/mailer"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/middleware"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/ratelimit"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/saga"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/sealer"
)

const (
	ServiceName = "bookings"

	rateLimitMessage = "Too many booking requests. Please try again later."
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg, app.WithCORS(corsOptions(cfg)))

	bookingService := initServices(cfg, serverApp)
	handlers := []contracts.Handler{
		handler.NewBookingHandler(bookingService, cfg.Log, initRouteMiddleware(cfg, serverApp)),
	}
	if adminHandler := initAdmin(cfg, bookingService); adminHandler != nil {
		handlers = append(handlers, adminHandler)
	}

	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func corsOptions(cfg *config.Config) middleware.CORSOptions {
	notification := middleware.CORSOptions{
		AllowOrigin:  cfg.CORSAllowOrigin,
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
	}
	return middleware.CORSOptions{
		AllowOrigin:  cfg.CORSAllowOrigin,
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type", middleware.IdempotencyKeyHeader},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		Paths: map[string]middleware.CORSOptions{
			handler.NotificationPath:      notification,
			handler.NotificationAliasPath: notification,
		},
	}
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)

	dispatcher := service.NewDispatcher(
		initSender(cfg),
		saga.NewRunner(saga.DefaultMaxConcurrent),
		service.NotificationConfig{
			From:               cfg.EmailFrom,
			OperatorRecipients: cfg.EmailOperatorRecipients,
			SendTimeout:        cfg.EmailSendTimeout,
		},
		cfg.Log,
	)

	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		dispatcher,
		initPublisher(cfg, serverApp),
		cfg.Log,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initSender(cfg *config.Config) mailer.Sender {
	sender, err := mailer.NewSender(cfg.ResendAPIKey, cfg.EmailSendRate, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create email sender", "error", err)
	}
	return sender
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("KAFKA_BROKERS not set, booking events disabled")
		return events.NopPublisher{}
	}
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingTopic, cfg.KafkaBookingDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	serverApp.AddStopper(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	return events.NewKafkaPublisher(producer, kafkaCfg.PublishTimeout)
}

func initRouteMiddleware(cfg *config.Config, serverApp *app.Application) handler.RouteMiddleware {
	limiter := ratelimit.NewFixedWindow(
		cfg.BookingRateLimitRequests,
		cfg.BookingRateLimitWindow,
		ratelimit.WithMaxKeys(cfg.RateLimitMaxClients),
	)
	limiter.StartJanitor(cfg.RateLimitSweepInterval)
	serverApp.AddStopper(limiter.Stop)

	var stats ratelimit.StatsStore
	if cfg.Client.Redis != nil {
		stats = ratelimit.NewRedisStatsStore(cfg.Client.Redis,
			ratelimit.WithStatsPrefix(cfg.RateStatsPrefix),
			ratelimit.WithStatsTTL(cfg.RateStatsTTL),
		)
	} else {
		memStats := ratelimit.NewMemoryStatsStore()
		serverApp.AddStopper(func() { memStats.LogSummary(cfg.Log) })
		stats = memStats
	}

	idempotencyStore := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	serverApp.AddStopper(idempotencyStore.Stop)

	trustProxy := cfg.TrustProxyHeaders
	cfg.Log.Info("Booking admission gate configured",
		"limit", cfg.BookingRateLimitRequests,
		"window", cfg.BookingRateLimitWindow,
		"trust_proxy_headers", trustProxy,
	)

	return handler.RouteMiddleware{
		Admission: middleware.ClientRateLimit(middleware.ClientRateLimitConfig{
			Limiter: limiter,
			KeyFunc: func(r *http.Request) string {
				return httputil.ClientAddress(r, trustProxy)
			},
			Stats:      stats,
			RetryAfter: cfg.BookingRateLimitWindow,
			Message:    rateLimitMessage,
		}, cfg.Log),
		Idempotency: middleware.Idempotency(idempotencyStore),
	}
}

// initAdmin returns nil when no session key is configured; the admin
// routes are then not registered at all.
func initAdmin(cfg *config.Config, bookingService service.BookingService) contracts.Handler {
	if cfg.AdminSessionKey == "" {
		cfg.Log.Warn("ADMIN_SESSION_KEY not set, admin endpoints disabled")
		return nil
	}

	sessionSealer, err := sealer.New(cfg.AdminSessionKey)
	if err != nil {
		cfg.Log.Fatal("Invalid ADMIN_SESSION_KEY", "error", err)
	}
	sessions := auth.NewSessions(sessionSealer, cfg.AdminSessionTTL)
	roles := adminrepo.NewMongoRoleRepository(cfg)

	guard := auth.RequireRole(sessions, roles, model.RoleAdmin, cfg.Log)
	cfg.Log.Info("Admin endpoints enabled", "session_ttl", cfg.AdminSessionTTL)
	return adminhandler.NewAdminHandler(bookingService, guard, cfg.Log)
}
