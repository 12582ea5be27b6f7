package handler

import (
	"net/http"

	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/common"

	"github.com/go-chi/chi/v5"
)

type PriceHandler struct {
	pricingService *service.PricingService
}

func NewPriceHandler(pricingService *service.PricingService) *PriceHandler {
	return &PriceHandler{pricingService: pricingService}
}

func (h *PriceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/copper", h.copper)
}

func (h *PriceHandler) copper(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	common.RespondWithJSON(w, http.StatusOK, h.pricingService.CopperPrices(r.Context()))
}
