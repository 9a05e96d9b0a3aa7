package handler

import (
	"context"
	"net/http"

	"zinbook/internal/volunteers/service"
	apperrors "zinbook/pkg/errors"
	httputil "zinbook/pkg/http"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type VolunteerHandler struct {
	service service.VolunteerService
	log     *logger.Logger
}

func NewVolunteerHandler(service service.VolunteerService, log *logger.Logger) *VolunteerHandler {
	return &VolunteerHandler{
		service: service,
		log:     log,
	}
}

func (h *VolunteerHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var volunteer model.Volunteer
	if err := httputil.DecodeStrict(r, &volunteer); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "error", writeErr)
		}
		return
	}

	if err := h.service.Register(r.Context(), &volunteer); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, volunteer); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *VolunteerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	volunteer, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, volunteer); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *VolunteerHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	volunteers, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, volunteers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

// ListSelectable serves the public volunteer directory: only verified,
// active volunteers, filtered by category and language query params.
func (h *VolunteerHandler) ListSelectable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSelectable", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	category := model.SupportCategory(query.Get("category"))
	language := model.Language(query.Get("language"))

	volunteers, total, err := h.service.ListSelectable(r.Context(), category, language, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSelectable", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, volunteers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListSelectable", "error", err)
	}
}

func (h *VolunteerHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.VolunteerUpdate
	if err := httputil.DecodeStrict(r, &updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateProfile(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type flagRequest struct {
	Value *bool `json:"value"`
}

func (h *VolunteerHandler) SetVerified(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setFlag(w, r, ps, "SetVerified", h.service.SetVerified)
}

func (h *VolunteerHandler) SetActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setFlag(w, r, ps, "SetActive", h.service.SetActive)
}

func (h *VolunteerHandler) setFlag(w http.ResponseWriter, r *http.Request, ps httprouter.Params, name string, apply func(ctx context.Context, id string, value bool) error) {
	var req flagRequest
	if err := httputil.DecodeStrict(r, &req); err != nil || req.Value == nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Request body must contain a boolean 'value' field")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "error", writeErr)
		}
		return
	}

	if err := apply(r.Context(), ps.ByName("id"), *req.Value); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *VolunteerHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/volunteers", h.Register)
	router.GET("/api/v1/volunteers", h.GetAll)
	router.GET("/api/v1/volunteers/selectable", h.ListSelectable)
	router.GET("/api/v1/volunteers/id/:id", h.GetByID)
	router.PATCH("/api/v1/volunteers/id/:id", h.Update)
	router.PATCH("/api/v1/volunteers/id/:id/verification", h.SetVerified)
	router.PATCH("/api/v1/volunteers/id/:id/activation", h.SetActive)
}
