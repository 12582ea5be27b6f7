package handler

import (
	"net/http"
	"strconv"

	"pinnacle_metals/internal/api/middleware"
	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	adminService   *service.AdminService
	pricingService *service.PricingService
	auth           *middleware.Auth
}

func NewAdminHandler(adminService *service.AdminService, pricingService *service.PricingService, auth *middleware.Auth) *AdminHandler {
	return &AdminHandler{adminService: adminService, pricingService: pricingService, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticate)
	r.Use(h.auth.RequireAdmin)

	r.Get("/stats", h.stats)

	r.Get("/pricing", h.getPricing)
	r.Patch("/pricing", h.setPricing)

	r.Get("/users", h.listUsers)
	r.Get("/users/export", h.exportUsers)
	r.Get("/users/{id}", h.getUser)
	r.Delete("/users/{id}", h.deleteUser)
	r.Patch("/users/{id}/verification", h.updateVerification)
	r.Patch("/users/{id}/role", h.updateRole)

	r.Get("/documents", h.listDocuments)
	r.Patch("/documents/{id}/status", h.updateDocumentStatus)
	r.Delete("/documents/{id}", h.deleteDocument)

	r.Get("/complaints", h.listComplaints)
	r.Patch("/complaints/{id}/status", h.updateComplaintStatus)
}

func listQuery(r *http.Request) service.ListQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))   // Defaults to 1 if invalid
	limit, _ := strconv.Atoi(q.Get("limit")) // Defaults to DefaultPageSize if invalid
	return service.ListQuery{Page: page, Limit: limit, Status: q.Get("status")}
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.adminService.Stats(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, st)
}

func (h *AdminHandler) getPricing(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.pricingService.GetConfig(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) setPricing(w http.ResponseWriter, r *http.Request) {
	var req service.SetOverrideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	cfg, err := h.pricingService.SetOverride(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.LoggerFrom(r.Context()).Info("pricing override updated",
		"override_set", cfg.OverrideSet, "base_copper_price", cfg.BaseCopperPrice)
	common.RespondWithJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.adminService.ListUsers(r.Context(), listQuery(r))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) exportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ExportUsers(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) getUser(w http.ResponseWriter, r *http.Request) {
	detail, err := h.adminService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.adminService.DeleteUser(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User and all associated data deleted successfully"})
}

func (h *AdminHandler) updateVerification(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateVerificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	user, err := h.adminService.UpdateVerification(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AdminHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	user, err := h.adminService.UpdateRole(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AdminHandler) listDocuments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.adminService.ListDocuments(r.Context(), listQuery(r))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) updateDocumentStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateDocumentStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	doc, err := h.adminService.UpdateDocumentStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.LoggerFrom(r.Context()).Info("document moderated", "document_id", doc.ID, "status", doc.Status)
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"document": doc})
}

func (h *AdminHandler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

func (h *AdminHandler) listComplaints(w http.ResponseWriter, r *http.Request) {
	resp, err := h.adminService.ListComplaints(r.Context(), listQuery(r))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) updateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateComplaintStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	complaint, err := h.adminService.UpdateComplaintStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"complaint": complaint})
}
