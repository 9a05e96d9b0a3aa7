package handler

import (
	"net/http"

	"zinbook/internal/availability/service"
	apperrors "zinbook/pkg/errors"
	httputil "zinbook/pkg/http"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rule model.AvailabilityRule
	if err := httputil.DecodeStrict(r, &rule); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateRule(r.Context(), &rule); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, rule); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *AvailabilityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rule, err := h.service.GetRule(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *AvailabilityHandler) GetForVolunteer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rules, err := h.service.GetRulesForVolunteer(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetForVolunteer", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rules); err != nil {
		h.log.Error("failed to write success response", "handler", "GetForVolunteer", "error", err)
	}
}

type toggleRequest struct {
	Value *bool `json:"value"`
}

func (h *AvailabilityHandler) SetAvailable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req toggleRequest
	if err := httputil.DecodeStrict(r, &req); err != nil || req.Value == nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Request body must contain a boolean 'value' field")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetAvailable", "error", writeErr)
		}
		return
	}

	if err := h.service.SetAvailable(r.Context(), ps.ByName("id"), *req.Value); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetAvailable", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteRule(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability", h.Create)
	router.GET("/api/v1/availability/id/:id", h.GetByID)
	router.PATCH("/api/v1/availability/id/:id/active", h.SetAvailable)
	router.DELETE("/api/v1/availability/id/:id", h.Delete)

	router.GET("/api/v1/volunteers/id/:id/availability", h.GetForVolunteer)
}
