package api

import (
	"log/slog"
	"net/http"
	"time"

	"pinnacle_metals/internal/api/handler"
	"pinnacle_metals/internal/api/middleware"
	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/common"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type Services struct {
	Auth       *service.AuthService
	Account    *service.AccountService
	Admin      *service.AdminService
	Pricing    *service.PricingService
	Documents  *service.DocumentService
	Complaints *service.ComplaintService
}

func NewRouter(services Services, auth *middleware.Auth, cookie handler.CookieConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			common.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		// Public, except /me which inspects credentials itself
		authHandler := handler.NewAuthHandler(services.Auth, auth, cookie)
		api.Route("/auth", authHandler.RegisterRoutes)

		// Authenticated
		accountHandler := handler.NewAccountHandler(services.Account, auth)
		api.Route("/account", accountHandler.RegisterRoutes)

		documentHandler := handler.NewDocumentHandler(services.Documents, auth)
		api.Route("/documents", documentHandler.RegisterRoutes)

		complaintHandler := handler.NewComplaintHandler(services.Complaints, auth)
		api.Route("/complaints", complaintHandler.RegisterRoutes)

		// Authenticated + admin
		adminHandler := handler.NewAdminHandler(services.Admin, services.Pricing, auth)
		api.Route("/admin", adminHandler.RegisterRoutes)

		priceHandler := handler.NewPriceHandler(services.Pricing)
		api.Route("/prices", priceHandler.RegisterRoutes)
	})

	return r
}
