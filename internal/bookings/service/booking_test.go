package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	bookingserrors "github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/events"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/validator"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/mailer"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/saga"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	mu                 sync.Mutex
	createErr          error
	updateStatusErr    error
	created            []*model.Booking
	notificationStatus map[string]string
	statuses           map[string]string
	findAllFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFunc          func(ctx context.Context) (int64, error)
	findByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
}

func newMockRepo() *mockBookingRepository {
	return &mockBookingRepository{
		notificationStatus: make(map[string]string),
		statuses:           make(map[string]string),
	}
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	booking.ID = "665f1c2e8b3e4a0012345678"
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.statuses[id] = status
	return nil
}

func (m *mockBookingRepository) UpdateNotificationStatus(ctx context.Context, id string, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationStatus[id] = status
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail map[string]error // keyed by subject prefix
}

func (s *recordingSender) Send(ctx context.Context, msg mailer.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	for prefix, err := range s.fail {
		if strings.HasPrefix(msg.Subject, prefix) {
			return "", err
		}
	}
	if strings.HasPrefix(msg.Subject, businessSubjectPrefix) {
		return "business-id", nil
	}
	return "confirmation-id", nil
}

func (s *recordingSender) bySubjectPrefix(prefix string) (mailer.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.sent {
		if strings.HasPrefix(m.Subject, prefix) {
			return m, true
		}
	}
	return mailer.Message{}, false
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, correlationID string, ev events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var testNotificationConfig = NotificationConfig{
	From:               "Open Door Professionals <noreply@opendoorpro.com>",
	OperatorRecipients: []string{"Sales@opendoorpro.com", "admin@opendoorpro.com"},
	SendTimeout:        time.Second,
}

func newTestService(repo *mockBookingRepository, sender mailer.Sender, pub events.Publisher) BookingService {
	log := logger.Nop()
	dispatcher := NewDispatcher(sender, saga.NewRunner(0), testNotificationConfig, log)
	return NewBookingService(repo, validator.NewBookingValidator(log), dispatcher, pub, log)
}

func validBookingRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		ServiceType:   "Payroll Outsourcing",
		PreferredDate: "2099-07-01",
		PreferredTime: "9:00 AM",
		Phone:         "+1 555 123 4567",
		Message:       "Looking forward to it",
	}
}

// ────────────────────────────────────────────────
// Notify
// ────────────────────────────────────────────────

func TestNotify_SendsBothEmails(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(newMockRepo(), sender, nil)

	result, err := svc.Notify(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EmailID != "business-id" || result.ConfirmationID != "confirmation-id" {
		t.Errorf("unexpected ids: %+v", result)
	}

	business, ok := sender.bySubjectPrefix(businessSubjectPrefix)
	if !ok {
		t.Fatal("business notification was not sent")
	}
	if business.Subject != "New Service Booking Request - Payroll Outsourcing" {
		t.Errorf("business subject = %q", business.Subject)
	}
	if strings.Join(business.To, ",") != "Sales@opendoorpro.com,admin@opendoorpro.com" {
		t.Errorf("business recipients = %v", business.To)
	}
	wantDate := time.Date(2099, 7, 1, 0, 0, 0, 0, time.UTC).Format("Monday, January 2, 2006")
	if !strings.Contains(business.HTML, wantDate) {
		t.Errorf("business HTML missing formatted date %q", wantDate)
	}
	if !strings.Contains(business.HTML, "Additional Message:") {
		t.Error("business HTML should include the optional message")
	}

	confirmation, ok := sender.bySubjectPrefix(confirmationSubject)
	if !ok {
		t.Fatal("confirmation was not sent")
	}
	if len(confirmation.To) != 1 || confirmation.To[0] != "jane@example.com" {
		t.Errorf("confirmation recipients = %v", confirmation.To)
	}
	if !strings.Contains(confirmation.HTML, "Dear Jane Doe,") {
		t.Error("confirmation HTML should greet the submitter")
	}
}

func TestNotify_ValidationFailureSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(newMockRepo(), sender, nil)

	req := validBookingRequest()
	req.Name = "J"
	req.Email = "nope"

	_, err := svc.Notify(context.Background(), req)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation || appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := appErr.Details.([]string)
	if len(details) != 2 || details[0] != validator.MsgNameTooShort || details[1] != validator.MsgEmailInvalid {
		t.Errorf("details = %v", appErr.Details)
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no emails, got %d", len(sender.sent))
	}
}

func TestNotify_SanitizesBeforeSending(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(newMockRepo(), sender, nil)

	req := validBookingRequest()
	req.Name = "  Jane <b>Doe</b>  "
	req.Message = ""

	if _, err := svc.Notify(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	confirmation, _ := sender.bySubjectPrefix(confirmationSubject)
	if !strings.Contains(confirmation.HTML, "Dear Jane bDoe/b,") {
		t.Errorf("name was not sanitized: %s", confirmation.HTML)
	}
	business, _ := sender.bySubjectPrefix(businessSubjectPrefix)
	if strings.Contains(business.HTML, "Additional Message:") {
		t.Error("empty message should be omitted")
	}
}

func TestNotify_DateAndTimeSkipSanitizer(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(newMockRepo(), sender, nil)

	req := validBookingRequest()
	req.PreferredTime = "<10:00> AM"
	req.ServiceType = "<Payroll>"

	if _, err := svc.Notify(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, prefix := range []string{businessSubjectPrefix, confirmationSubject} {
		msg, ok := sender.bySubjectPrefix(prefix)
		if !ok {
			t.Fatalf("%q was not sent", prefix)
		}
		if !strings.Contains(msg.HTML, "&lt;10:00&gt; AM") {
			t.Errorf("%q: preferred time should be kept as typed and escaped: %s", prefix, msg.HTML)
		}
		if strings.Contains(msg.HTML, "&lt;Payroll&gt;") {
			t.Errorf("%q: service type should still be sanitized", prefix)
		}
	}
}

func TestNotify_PartialFailure(t *testing.T) {
	tests := []struct {
		name    string
		fail    map[string]error
		wantMsg string
	}{
		{
			name:    "business leg fails",
			fail:    map[string]error{businessSubjectPrefix: errors.New("invalid api key")},
			wantMsg: "invalid api key",
		},
		{
			name:    "confirmation leg fails",
			fail:    map[string]error{confirmationSubject: errors.New("recipient rejected")},
			wantMsg: "recipient rejected",
		},
		{
			name: "both fail reports business first",
			fail: map[string]error{
				businessSubjectPrefix: errors.New("business down"),
				confirmationSubject:   errors.New("confirmation down"),
			},
			wantMsg: "business down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{fail: tt.fail}
			svc := newTestService(newMockRepo(), sender, nil)

			_, err := svc.Notify(context.Background(), validBookingRequest())
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if !errors.Is(err, bookingserrors.ErrDispatchFailed) {
				t.Error("error should match ErrDispatchFailed")
			}
			if len(sender.sent) != 2 {
				t.Errorf("both legs should be attempted, got %d sends", len(sender.sent))
			}
		})
	}
}

func TestNotify_SendTimeout(t *testing.T) {
	blocking := mailer.SenderFunc(func(ctx context.Context, msg mailer.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	log := logger.Nop()
	cfg := testNotificationConfig
	cfg.SendTimeout = 20 * time.Millisecond
	dispatcher := NewDispatcher(blocking, saga.NewRunner(0), cfg, log)
	svc := NewBookingService(newMockRepo(), validator.NewBookingValidator(log), dispatcher, nil, log)

	start := time.Now()
	_, err := svc.Notify(context.Background(), validBookingRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("legs should time out independently and concurrently, took %v", elapsed)
	}
}

func TestNotify_SendTimeoutHidesRecipients(t *testing.T) {
	blocking := mailer.SenderFunc(func(ctx context.Context, msg mailer.Message) (string, error) {
		if strings.HasPrefix(msg.Subject, businessSubjectPrefix) {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "confirmation-id", nil
	})
	log := logger.Nop()
	cfg := testNotificationConfig
	cfg.SendTimeout = 20 * time.Millisecond
	dispatcher := NewDispatcher(blocking, saga.NewRunner(0), cfg, log)
	svc := NewBookingService(newMockRepo(), validator.NewBookingValidator(log), dispatcher, nil, log)

	_, err := svc.Notify(context.Background(), validBookingRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, addr := range cfg.OperatorRecipients {
		if strings.Contains(err.Error(), addr) {
			t.Errorf("error %q exposes operator address %q", err.Error(), addr)
		}
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %q, want a timeout message", err.Error())
	}
}

// ────────────────────────────────────────────────
// Submit
// ────────────────────────────────────────────────

func TestSubmit_StoresThenNotifies(t *testing.T) {
	repo := newMockRepo()
	sender := &recordingSender{}
	pub := &recordingPublisher{}
	svc := newTestService(repo, sender, pub)

	result, err := svc.Submit(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Degraded {
		t.Error("expected a clean submit")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored booking, got %d", len(repo.created))
	}

	b := repo.created[0]
	if b.PreferredDate != "2099-07-01" {
		t.Errorf("preferred_date = %q", b.PreferredDate)
	}
	if b.PreferredTime != "09:00:00" {
		t.Errorf("preferred_time = %q", b.PreferredTime)
	}
	if b.Status != model.BookingStatusPending {
		t.Errorf("status = %q", b.Status)
	}
	if b.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
	if got := repo.notificationStatus[b.ID]; got != model.NotificationStatusSent {
		t.Errorf("notification_status = %q, want sent", got)
	}
	if result.Booking.NotificationStatus != model.NotificationStatusSent {
		t.Errorf("returned booking notification_status = %q", result.Booking.NotificationStatus)
	}

	want := []string{events.TypeBookingCreated, events.TypeBookingNotificationSent}
	if got := pub.types(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSubmit_StoreFailureSkipsDispatch(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("connection refused")
	sender := &recordingSender{}
	svc := newTestService(repo, sender, nil)

	_, err := svc.Submit(context.Background(), validBookingRequest())

	appErr := apperrors.AsAppError(err)
	if appErr.Message != MsgSaveFailed || appErr.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("no email should be sent when the store fails, got %d", len(sender.sent))
	}
}

func TestSubmit_DispatchFailureIsDegraded(t *testing.T) {
	repo := newMockRepo()
	sender := &recordingSender{fail: map[string]error{confirmationSubject: errors.New("bounced")}}
	pub := &recordingPublisher{}
	svc := newTestService(repo, sender, pub)

	result, err := svc.Submit(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("dispatch failure after insert should not be an error: %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded result")
	}
	if got := repo.notificationStatus[result.Booking.ID]; got != model.NotificationStatusFailed {
		t.Errorf("notification_status = %q, want failed", got)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	last := pub.events[len(pub.events)-1]
	if last.Type != events.TypeBookingNotificationFailed || last.Error != "bounced" {
		t.Errorf("last event = %+v", last)
	}
}

func TestSubmit_ValidationFailureStoresNothing(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &recordingSender{}, nil)

	req := validBookingRequest()
	req.PreferredDate = "2000-01-01"

	_, err := svc.Submit(context.Background(), req)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Error("nothing should be stored")
	}
}

// ────────────────────────────────────────────────
// Admin operations
// ────────────────────────────────────────────────

func TestGetAll_ConcurrentAccess(t *testing.T) {
	repo := newMockRepo()
	repo.countFunc = func(ctx context.Context) (int64, error) {
		time.Sleep(10 * time.Millisecond)
		return 42, nil
	}
	repo.findAllFunc = func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
		time.Sleep(10 * time.Millisecond)
		return []*model.Booking{{ID: "1"}, {ID: "2"}}, nil
	}
	svc := newTestService(repo, &recordingSender{}, nil)

	for i := 0; i < 10; i++ {
		bookings, count, err := svc.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 42 || len(bookings) != 2 {
			t.Errorf("iteration %d: got %d bookings, count %d", i, len(bookings), count)
		}
	}
}

func TestGetAll_CountError(t *testing.T) {
	repo := newMockRepo()
	repo.countFunc = func(ctx context.Context) (int64, error) {
		return 0, errors.New("boom")
	}
	svc := newTestService(repo, &recordingSender{}, nil)

	_, _, err := svc.GetAll(context.Background(), 10, 0)
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo := newMockRepo()
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		switch id {
		case "665f1c2e8b3e4a0012345678":
			return &model.Booking{ID: id}, nil
		case "bad":
			return nil, bookingserrors.ErrInvalidID
		}
		return nil, bookingserrors.ErrNotFound
	}
	svc := newTestService(repo, &recordingSender{}, nil)

	if _, err := svc.GetByID(context.Background(), "665f1c2e8b3e4a0012345678"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), ""); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("empty id: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "bad"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("bad id: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "665f1c2e8b3e4a00ffffffff"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("missing id: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	const id = "665f1c2e8b3e4a0012345678"

	t.Run("valid status", func(t *testing.T) {
		repo := newMockRepo()
		pub := &recordingPublisher{}
		svc := newTestService(repo, &recordingSender{}, pub)

		err := svc.UpdateStatus(context.Background(), id, &model.BookingStatusUpdate{Status: model.BookingStatusConfirmed})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.statuses[id] != model.BookingStatusConfirmed {
			t.Errorf("status = %q", repo.statuses[id])
		}
		if got := pub.types(); len(got) != 1 || got[0] != events.TypeBookingStatusChanged {
			t.Errorf("events = %v", got)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := newTestService(newMockRepo(), &recordingSender{}, nil)
		err := svc.UpdateStatus(context.Background(), id, &model.BookingStatusUpdate{Status: "archived"})
		if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("missing booking", func(t *testing.T) {
		repo := newMockRepo()
		repo.updateStatusErr = bookingserrors.ErrNotFound
		svc := newTestService(repo, &recordingSender{}, nil)
		err := svc.UpdateStatus(context.Background(), id, &model.BookingStatusUpdate{Status: model.BookingStatusCancelled})
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}
