package handler

import (
	"encoding/json"
	"net/http"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/admin/auth"
	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/service"
	httputil "github.com/odp-Dev/opendoor-growth-hub-main/pkg/http"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// AdminHandler serves the operator dashboard's booking views.
type AdminHandler struct {
	bookings service.BookingService
	guard    func(httprouter.Handle) httprouter.Handle
	log      *logger.Logger
}

func NewAdminHandler(bookings service.BookingService, guard func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *AdminHandler {
	return &AdminHandler{bookings: bookings, guard: guard, log: log}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "ListBookings")
		return
	}

	bookings, total, err := h.bookings.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err, "ListBookings")
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBookings", "operation", "WritePaginated", "error", err)
	}
}

func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.bookings.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetBooking")
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	id := ps.ByName("id")
	if err := h.bookings.UpdateStatus(r.Context(), id, &update); err != nil {
		h.writeError(w, err, "UpdateStatus")
		return
	}

	h.log.Info("Booking status changed by operator", "id", id, "status", update.Status, "user_id", auth.UserID(r.Context()))
	httputil.WriteNoContent(w)
}

func (h *AdminHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/bookings", h.guard(h.ListBookings))
	router.GET("/api/v1/admin/bookings/id/:id", h.guard(h.GetBooking))
	router.PATCH("/api/v1/admin/bookings/id/:id/status", h.guard(h.UpdateStatus))
}
