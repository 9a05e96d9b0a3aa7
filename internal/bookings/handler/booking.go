package handler

import (
	"net/http"

	"zinbook/internal/bookings/service"
	apperrors "zinbook/pkg/errors"
	httputil "zinbook/pkg/http"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeStrict(r, &booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Reserve", "error", writeErr)
		}
		return
	}

	if err := h.service.Reserve(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Reserve", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByReference(r.Context(), ps.ByName("reference"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByReference", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReference", "error", err)
	}
}

type statusRequest struct {
	Status model.BookingStatus `json:"status"`
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req statusRequest
	if err := httputil.DecodeStrict(r, &req); err != nil || req.Status == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Request body must contain a 'status' field")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), req.Status); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// GetSlots serves the bookable slots for one volunteer and date, the
// read side of the booking flow.
func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Query parameter 'date' is required (YYYY-MM-DD)")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSlots", "error", writeErr)
		}
		return
	}

	slots, err := h.service.GetBookableSlots(r.Context(), ps.ByName("id"), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSlots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSlots", "error", err)
	}
}

func (h *BookingHandler) ListByVolunteer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByVolunteer", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.ListByVolunteer(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByVolunteer", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByVolunteer", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Reserve)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.GET("/api/v1/bookings/reference/:reference", h.GetByReference)

	router.GET("/api/v1/volunteers/id/:id/slots", h.GetSlots)
	router.GET("/api/v1/volunteers/id/:id/bookings", h.ListByVolunteer)
}
