package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingserrors "github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/validator"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/mailer"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/saga"
)

const (
	StepBusinessNotification = "business_notification"
	StepCustomerConfirmation = "customer_confirmation"

	displayDateLayout = "Monday, January 2, 2006"
)

type NotificationConfig struct {
	From               string
	OperatorRecipients []string
	SendTimeout        time.Duration
}

// DispatchResult carries the provider message IDs of both legs.
type DispatchResult struct {
	EmailID        string
	ConfirmationID string
}

// DispatchError reports a dispatch where at least one leg failed. Its
// message is the first failed leg's error, business notification first.
type DispatchError struct {
	Outcome saga.Outcome
}

func (e *DispatchError) Error() string {
	if err := e.Outcome.FirstError(); err != nil {
		return err.Error()
	}
	return bookingserrors.ErrDispatchFailed.Error()
}

func (e *DispatchError) Unwrap() []error {
	errs := []error{bookingserrors.ErrDispatchFailed}
	for _, r := range e.Outcome.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Dispatcher sends the two booking emails as one saga: both legs are
// attempted, neither is compensated.
type Dispatcher struct {
	sender mailer.Sender
	runner *saga.Runner
	cfg    NotificationConfig
	log    *logger.Logger
}

func NewDispatcher(sender mailer.Sender, runner *saga.Runner, cfg NotificationConfig, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		runner: runner,
		cfg:    cfg,
		log:    log,
	}
}

// Dispatch sends the operator notification and the customer confirmation
// for an already sanitized booking request.
func (d *Dispatcher) Dispatch(ctx context.Context, req *model.BookingRequest) (DispatchResult, error) {
	date, err := validator.ParsePreferredDate(req.PreferredDate)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("failed to format preferred date: %w", err)
	}

	data := emailData{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		ServiceType:   req.ServiceType,
		FormattedDate: date.Format(displayDateLayout),
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
	}

	businessHTML, err := render(businessTemplate, data)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("failed to render business notification: %w", err)
	}
	confirmationHTML, err := render(confirmationTemplate, data)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("failed to render confirmation: %w", err)
	}

	business := mailer.Message{
		From:    d.cfg.From,
		To:      d.cfg.OperatorRecipients,
		ReplyTo: req.Email,
		Subject: businessSubjectPrefix + req.ServiceType,
		HTML:    businessHTML,
	}
	confirmation := mailer.Message{
		From:    d.cfg.From,
		To:      []string{req.Email},
		Subject: confirmationSubject,
		HTML:    confirmationHTML,
	}

	outcome := d.runner.Run(ctx,
		saga.NewStep(StepBusinessNotification, d.send(StepBusinessNotification, business)),
		saga.NewStep(StepCustomerConfirmation, d.send(StepCustomerConfirmation, confirmation)),
	)

	for _, r := range outcome.Results {
		if r.Err != nil {
			d.log.Error("Booking email leg failed", "step", r.Name, "error", r.Err)
			continue
		}
		d.log.Info("Booking email sent", "step", r.Name, "message_id", r.Ref)
	}

	if outcome.Failed() {
		return DispatchResult{}, &DispatchError{Outcome: outcome}
	}

	businessResult, _ := outcome.Result(StepBusinessNotification)
	confirmationResult, _ := outcome.Result(StepCustomerConfirmation)
	return DispatchResult{
		EmailID:        businessResult.Ref,
		ConfirmationID: confirmationResult.Ref,
	}, nil
}

// send builds one saga leg. Its error text reaches the caller, so recipients
// are only logged.
func (d *Dispatcher) send(step string, msg mailer.Message) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := msg.Validate(); err != nil {
			return "", err
		}
		if d.cfg.SendTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
			defer cancel()
		}
		id, err := d.sender.Send(ctx, msg)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				d.log.Warn("Booking email timed out",
					"step", step,
					"recipients", strings.Join(msg.To, ", "),
					"timeout", d.cfg.SendTimeout,
				)
				return "", fmt.Errorf("email send timed out: %w", err)
			}
			return "", err
		}
		return id, nil
	}
}
