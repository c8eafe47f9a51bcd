package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	contactvalidator "github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/validator"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/mailer"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/saga"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mailer.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return "id", s.err
}

func newTestService(sender mailer.Sender) ContactService {
	log := logger.Nop()
	return NewContactService(contactvalidator.NewContactValidator(log), sender, saga.NewRunner(0), Config{
		From:               "Open Door Professionals <noreply@opendoorpro.com>",
		OperatorRecipients: []string{"sales@opendoorpro.com", "admin@opendoorpro.com"},
	}, log)
}

func TestSubmit_SendsNotificationThenConfirmation(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)

	err := svc.Submit(context.Background(), &model.ContactRequest{
		Name:    "Ana <Cruz>",
		Email:   "ana@example.com",
		Message: "Need payroll help",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.sent))
	}

	business, confirmation := sender.sent[0], sender.sent[1]
	if business.Subject != "New Contact Form Submission from Ana Cruz" {
		t.Errorf("business subject = %q", business.Subject)
	}
	if !strings.Contains(business.HTML, "<b>Company:</b> N/A") || !strings.Contains(business.HTML, "<b>Phone:</b> N/A") {
		t.Errorf("missing optional fields should read N/A: %s", business.HTML)
	}
	if confirmation.Subject != confirmationSubject || confirmation.To[0] != "ana@example.com" {
		t.Errorf("unexpected confirmation: %+v", confirmation)
	}
	if !strings.Contains(confirmation.HTML, "Hi Ana Cruz,") {
		t.Errorf("confirmation greeting missing: %s", confirmation.HTML)
	}
}

func TestSubmit_MissingFields(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)

	err := svc.Submit(context.Background(), &model.ContactRequest{Name: "Ana"})

	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != http.StatusBadRequest || appErr.Message != contactvalidator.MsgRequiredFields {
		t.Errorf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("nothing should be sent")
	}
}

func TestSubmit_SendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("provider rejected")}
	svc := newTestService(sender)

	err := svc.Submit(context.Background(), &model.ContactRequest{Name: "Ana", Email: "ana@example.com", Message: "Hi"})

	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != http.StatusInternalServerError || appErr.Message != MsgSendFailed {
		t.Errorf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("confirmation should be skipped after a failed notification, got %d sends", len(sender.sent))
	}
}
