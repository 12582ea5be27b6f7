package handler

import (
	"net/http"

	"pinnacle_metals/internal/api/middleware"
	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/common"

	"github.com/go-chi/chi/v5"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	auth            *middleware.Auth
}

func NewDocumentHandler(documentService *service.DocumentService, auth *middleware.Auth) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, auth: auth}
}

func (h *DocumentHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Authenticate)
	r.Get("/", h.list)
	r.Post("/", h.register)
}

func (h *DocumentHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	docs, err := h.documentService.ListForUser(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *DocumentHandler) register(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req service.RegisterDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	doc, err := h.documentService.Register(r.Context(), userID, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"document": doc})
}
