package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/events"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/repository"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/validator"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/middleware"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/sanitizer"
)

const (
	MsgValidationFailed = "Validation failed"
	MsgSaveFailed       = "Failed to save booking"
)

// SubmitResult is the outcome of a stored booking. Degraded is set when the
// record was saved but its emails were not delivered.
type SubmitResult struct {
	Booking  *model.Booking
	Dispatch DispatchResult
	Degraded bool
}

type BookingService interface {
	// Notify validates and sanitizes a request, then sends both booking
	// emails without storing anything.
	Notify(ctx context.Context, req *model.BookingRequest) (DispatchResult, error)
	// Submit stores the booking and then sends both emails.
	Submit(ctx context.Context, req *model.BookingRequest) (*SubmitResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error
}

type bookingService struct {
	repo       repository.BookingRepository
	validator  *validator.BookingValidator
	dispatcher *Dispatcher
	publisher  events.Publisher
	log        *logger.Logger
	now        func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	dispatcher *Dispatcher,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		repo:       repo,
		validator:  validator,
		dispatcher: dispatcher,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

func (s *bookingService) Notify(ctx context.Context, req *model.BookingRequest) (DispatchResult, error) {
	clean, err := s.admit(req)
	if err != nil {
		return DispatchResult{}, err
	}

	result, err := s.dispatcher.Dispatch(ctx, clean)
	if err != nil {
		s.log.Error("Failed to send booking emails",
			"request_id", middleware.GetRequestID(ctx),
			"service_type", clean.ServiceType,
			"error", err,
		)
		return DispatchResult{}, err
	}

	s.log.Info("Booking emails sent",
		"request_id", middleware.GetRequestID(ctx),
		"email_id", result.EmailID,
		"confirmation_id", result.ConfirmationID,
	)
	return result, nil
}

func (s *bookingService) Submit(ctx context.Context, req *model.BookingRequest) (*SubmitResult, error) {
	clean, err := s.admit(req)
	if err != nil {
		return nil, err
	}

	booking := s.newRecord(clean)
	if err := s.repo.Create(ctx, booking); err != nil {
		s.log.Error("Failed to save booking", "request_id", middleware.GetRequestID(ctx), "error", err)
		return nil, apperrors.Internal(MsgSaveFailed, err)
	}
	s.log.Info("Booking saved", "id", booking.ID, "service_type", booking.ServiceType)
	s.publish(ctx, events.TypeBookingCreated, booking)

	result := &SubmitResult{Booking: booking}

	dispatch, err := s.dispatcher.Dispatch(ctx, clean)
	if err != nil {
		s.log.Error("Booking saved but notification failed", "id", booking.ID, "error", err)
		result.Degraded = true
		s.markNotification(ctx, booking, model.NotificationStatusFailed)
		s.publish(ctx, events.TypeBookingNotificationFailed, booking, err)
		return result, nil
	}

	result.Dispatch = dispatch
	s.markNotification(ctx, booking, model.NotificationStatusSent)
	s.publish(ctx, events.TypeBookingNotificationSent, booking)
	return result, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.UpdateStatus(ctx, id, update.Status); err != nil {
		return s.mapRepoError(err, "Failed to update booking status")
	}

	s.log.Info("Booking status updated", "id", id, "status", update.Status)
	s.publish(ctx, events.TypeBookingStatusChanged, &model.Booking{ID: id, Status: update.Status})
	return nil
}

// admit validates the raw request and returns its sanitized copy.
func (s *bookingService) admit(req *model.BookingRequest) (*model.BookingRequest, error) {
	result := s.validator.Validate(req)
	if !result.Valid {
		return nil, apperrors.Validation(MsgValidationFailed, result.Errors)
	}

	return &model.BookingRequest{
		Name:          sanitizer.Sanitize(req.Name),
		Email:         sanitizer.Sanitize(req.Email),
		ServiceType:   sanitizer.Sanitize(req.ServiceType),
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Phone:         sanitizer.Sanitize(req.Phone),
		Message:       sanitizer.Sanitize(req.Message),
	}, nil
}

func (s *bookingService) newRecord(req *model.BookingRequest) *model.Booking {
	preferredDate := req.PreferredDate
	if t, err := validator.ParsePreferredDate(req.PreferredDate); err == nil {
		preferredDate = t.Format(time.DateOnly)
	}

	return &model.Booking{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		ServiceType:        req.ServiceType,
		PreferredDate:      preferredDate,
		PreferredTime:      sanitizer.NormalizeTime(req.PreferredTime),
		Message:            req.Message,
		Status:             model.BookingStatusPending,
		NotificationStatus: model.NotificationStatusPending,
		CreatedAt:          s.now().UTC().Truncate(time.Millisecond),
	}
}

func (s *bookingService) markNotification(ctx context.Context, booking *model.Booking, status string) {
	booking.NotificationStatus = status
	// The emails already went out (or failed); a request cancelled now must
	// not leave the record saying pending.
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.UpdateNotificationStatus(ctx, booking.ID, status); err != nil {
		s.log.Error("Failed to record notification status",
			"id", booking.ID,
			"notification_status", status,
			"error", err,
		)
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, cause ...error) {
	ev := events.NewBookingEvent(eventType, booking)
	if len(cause) > 0 && cause[0] != nil {
		ev.Error = cause[0].Error()
	}
	if err := s.publisher.Publish(ctx, middleware.GetRequestID(ctx), ev); err != nil {
		s.log.Warn("Failed to publish booking event", "type", eventType, "id", booking.ID, "error", err)
	}
}

func (s *bookingService) mapRepoError(err error, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFound("Booking")
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		s.log.Error(message, "error", err)
		return apperrors.Internal(message, err)
	}
}
