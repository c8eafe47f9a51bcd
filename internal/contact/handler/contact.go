package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/service"
	contactvalidator "github.com/odp-Dev/opendoor-growth-hub-main/internal/contact/validator"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	httputil "github.com/odp-Dev/opendoor-growth-hub-main/pkg/http"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/middleware"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	ContactPath      = "/api/v1/contact"
	ContactAliasPath = "/.netlify/functions/contact"
)

type ContactResponse struct {
	Success bool `json:"success"`
}

type ContactHandler struct {
	service service.ContactService
	log     *logger.Logger
}

func NewContactHandler(service service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ContactRequest
	typeErrors, err := httputil.DecodeStringObject(r.Body, &req)
	switch {
	case errors.Is(err, io.EOF):
		// An empty body is an empty form.
	case err != nil:
		h.log.Error("Failed to decode contact form",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		h.writeError(w, apperrors.Internal(service.MsgSendFailed, err))
		return
	case len(typeErrors) > 0:
		h.writeError(w, apperrors.InvalidInput(contactvalidator.MsgRequiredFields))
		return
	}

	if err := h.service.Submit(r.Context(), &req); err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, ContactResponse{Success: true}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", err)
	}
}

func (h *ContactHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
	}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(ContactPath, h.Submit)
	router.POST(ContactAliasPath, h.Submit)
}
