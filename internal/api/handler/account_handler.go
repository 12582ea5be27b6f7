package handler

import (
	"net/http"

	"pinnacle_metals/internal/api/middleware"
	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	accountService *service.AccountService
	auth           *middleware.Auth
}

func NewAccountHandler(accountService *service.AccountService, auth *middleware.Auth) *AccountHandler {
	return &AccountHandler{accountService: accountService, auth: auth}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticate)
	r.Get("/", h.get)
	r.Put("/profile", h.updateProfile)
	r.Post("/change-password", h.changePassword)
}

func (h *AccountHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	resp, err := h.accountService.Get(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var patch model.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	profile, err := h.accountService.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func (h *AccountHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req service.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	if err := h.accountService.ChangePassword(r.Context(), userID, req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
