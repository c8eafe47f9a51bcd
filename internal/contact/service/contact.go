package service

import (
	"context"
	"fmt"
	"time"

	contactvalidator "github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/validator"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/mailer"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/saga"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/sanitizer"
)

const (
	StepBusinessNotification = "business_notification"
	StepCustomerConfirmation = "customer_confirmation"

	MsgSendFailed = "Failed to send email"
)

type Config struct {
	From               string
	OperatorRecipients []string
	SendTimeout        time.Duration
}

type ContactService interface {
	Submit(ctx context.Context, req *model.ContactRequest) error
}

type contactService struct {
	validator *contactvalidator.ContactValidator
	sender    mailer.Sender
	runner    *saga.Runner
	cfg       Config
	log       *logger.Logger
}

func NewContactService(v *contactvalidator.ContactValidator, sender mailer.Sender, runner *saga.Runner, cfg Config, log *logger.Logger) ContactService {
	return &contactService{
		validator: v,
		sender:    sender,
		runner:    runner,
		cfg:       cfg,
		log:       log,
	}
}

// Submit checks the form and sends the operator notification, then the
// customer acknowledgement. The acknowledgement is skipped if the operator
// email fails.
func (s *contactService) Submit(ctx context.Context, req *model.ContactRequest) error {
	if !s.validator.Validate(req) {
		return apperrors.InvalidInput(contactvalidator.MsgRequiredFields)
	}

	clean := model.ContactRequest{
		Name:    sanitizer.Sanitize(req.Name),
		Company: sanitizer.Sanitize(req.Company),
		Email:   sanitizer.Sanitize(req.Email),
		Phone:   sanitizer.Sanitize(req.Phone),
		Message: sanitizer.Sanitize(req.Message),
	}

	businessHTML, err := render(businessTemplate, clean)
	if err != nil {
		return apperrors.Internal(MsgSendFailed, fmt.Errorf("failed to render contact notification: %w", err))
	}
	confirmationHTML, err := render(confirmationTemplate, clean)
	if err != nil {
		return apperrors.Internal(MsgSendFailed, fmt.Errorf("failed to render contact confirmation: %w", err))
	}

	outcome := s.runner.RunInOrder(ctx,
		saga.NewStep(StepBusinessNotification, s.send(mailer.Message{
			From:    s.cfg.From,
			To:      s.cfg.OperatorRecipients,
			ReplyTo: clean.Email,
			Subject: businessSubjectPrefix + clean.Name,
			HTML:    businessHTML,
		})),
		saga.NewStep(StepCustomerConfirmation, s.send(mailer.Message{
			From:    s.cfg.From,
			To:      []string{clean.Email},
			Subject: confirmationSubject,
			HTML:    confirmationHTML,
		})),
	)

	if err := outcome.Err(); err != nil {
		s.log.Error("Failed to send contact emails", "error", err)
		return apperrors.Internal(MsgSendFailed, err)
	}

	s.log.Info("Contact emails sent")
	return nil
}

func (s *contactService) send(msg mailer.Message) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := msg.Validate(); err != nil {
			return "", err
		}
		if s.cfg.SendTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.SendTimeout)
			defer cancel()
		}
		return s.sender.Send(ctx, msg)
	}
}
