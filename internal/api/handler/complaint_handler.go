package handler

import (
	"net/http"

	"pinnacle_metals/internal/api/middleware"
	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/common"

	"github.com/go-chi/chi/v5"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
	auth             *middleware.Auth
}

func NewComplaintHandler(complaintService *service.ComplaintService, auth *middleware.Auth) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService, auth: auth}
}

func (h *ComplaintHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticate)
	r.Get("/", h.list)
	r.Post("/", h.submit)
}

func (h *ComplaintHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	complaints, err := h.complaintService.ListForUser(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"complaints": complaints})
}

func (h *ComplaintHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req service.SubmitComplaintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	complaint, err := h.complaintService.Submit(r.Context(), userID, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"complaint": complaint})
}
