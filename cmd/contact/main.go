package main

import (
	"net/http"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/handler"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/service"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/validator"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/app"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/config"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/mailer"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/middleware"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/saga"
)

const ServiceName = "contact"

// The contact form keeps nothing, so no store is connected.
func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Contact service")
	sender, err := mailer.NewSender(cfg.ResendAPIKey, cfg.EmailSendRate, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create email sender", "error", err)
	}

	contactService := service.NewContactService(
		validator.NewContactValidator(cfg.Log),
		sender,
		saga.NewRunner(saga.DefaultMaxConcurrent),
		service.Config{
			From:               cfg.EmailFrom,
			OperatorRecipients: cfg.EmailOperatorRecipients,
			SendTimeout:        cfg.EmailSendTimeout,
		},
		cfg.Log,
	)

	serverApp := app.NewApplication(cfg, app.WithCORS(middleware.CORSOptions{
		AllowOrigin:  cfg.CORSAllowOrigin,
		AllowHeaders: []string{"Content-Type"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
	}))
	serverApp.SetApp(handler.NewContactHandler(contactService, cfg.Log))
	serverApp.Run()
}
