package handler

import (
	"errors"
	"net/http"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/service"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	httputil "github.com/odp-Dev/opendoor-growth-hub-main/pkg/http"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/middleware"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	NotificationPath      = "/api/v1/booking-notifications"
	NotificationAliasPath = "/functions/v1/send-booking-email"
	BookingsPath          = "/api/v1/bookings"

	MsgEmailsSent       = "Booking emails sent successfully"
	MsgDispatchFailed   = "Failed to send booking emails"
	MsgBookingConfirmed = "Thank you for your booking request. We'll contact you within 24 hours to confirm your appointment."
	MsgBookingDegraded  = "Your booking has been saved, but there was an issue sending the notification email. We'll contact you soon!"
)

type NotificationResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	EmailID        string `json:"emailId"`
	ConfirmationID string `json:"confirmationId"`
}

type SubmitResponse struct {
	Success  bool           `json:"success"`
	Degraded bool           `json:"degraded,omitempty"`
	Message  string         `json:"message"`
	Booking  *model.Booking `json:"booking"`
}

// RouteMiddleware wraps individual booking routes. Admission guards every
// public POST; Idempotency only wraps record creation. Nil means none.
type RouteMiddleware struct {
	Admission   func(http.Handler) http.Handler
	Idempotency func(http.Handler) http.Handler
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
	mw      RouteMiddleware
}

func NewBookingHandler(service service.BookingService, log *logger.Logger, mw RouteMiddleware) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
		mw:      mw,
	}
}

func (h *BookingHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if !h.decode(w, r, &req, "Notify", MsgDispatchFailed) {
		return
	}

	result, err := h.service.Notify(r.Context(), &req)
	if err != nil {
		var dispatchErr *service.DispatchError
		switch {
		case errors.As(err, &dispatchErr):
			err = apperrors.DispatchFailed(dispatchErr, MsgDispatchFailed)
		case !apperrors.IsAppError(err):
			err = internalError(err, MsgDispatchFailed)
		}
		h.writeError(w, err, "Notify")
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, NotificationResponse{
		Success:        true,
		Message:        MsgEmailsSent,
		EmailID:        result.EmailID,
		ConfirmationID: result.ConfirmationID,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Notify", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if !h.decode(w, r, &req, "Create", service.MsgSaveFailed) {
		return
	}

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = internalError(err, service.MsgSaveFailed)
		}
		h.writeError(w, err, "Create")
		return
	}

	resp := SubmitResponse{
		Success: true,
		Message: MsgBookingConfirmed,
		Booking: result.Booking,
	}
	if result.Degraded {
		resp.Degraded = true
		resp.Message = MsgBookingDegraded
	}

	if err := httputil.WriteCreated(w, resp); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

// decode reads a booking request. A body that is not a JSON object is an
// unexpected failure. A known field of the wrong type is left empty so the
// validator reports it with the rest of the violations.
func (h *BookingHandler) decode(w http.ResponseWriter, r *http.Request, req *model.BookingRequest, handler, details string) bool {
	typeErrors, err := httputil.DecodeStringObject(r.Body, req)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, httputil.ErrorResponse{Error: "Request body too large"}, handler)
			return false
		}
		h.log.Error("Failed to decode booking request",
			"handler", handler,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		h.writeError(w, internalError(err, details), handler)
		return false
	}
	if len(typeErrors) > 0 {
		h.log.Debug("Ignoring mistyped booking fields",
			"handler", handler,
			"request_id", middleware.GetRequestID(r.Context()),
			"fields", typeErrors,
		)
	}
	return true
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, status int, body any, handler string) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func internalError(err error, details string) *apperrors.AppError {
	return apperrors.Internal("Internal server error", err).WithDetails(details)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	notify := wrap(http.HandlerFunc(h.Notify), h.mw.Admission)
	router.Handler(http.MethodPost, NotificationPath, notify)
	router.Handler(http.MethodPost, NotificationAliasPath, notify)

	create := wrap(http.HandlerFunc(h.Create), h.mw.Idempotency, h.mw.Admission)
	router.Handler(http.MethodPost, BookingsPath, create)
}

// wrap applies mws innermost first.
func wrap(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for _, mw := range mws {
		if mw != nil {
			h = mw(h)
		}
	}
	return h
}
