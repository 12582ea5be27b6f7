package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinnacle_metals/internal/api"
	"pinnacle_metals/internal/api/handler"
	"pinnacle_metals/internal/api/middleware"
	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/app/worker"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/repository"
	"pinnacle_metals/internal/platform/config"
	"pinnacle_metals/internal/platform/database"
	"pinnacle_metals/internal/platform/logger"
	"pinnacle_metals/internal/platform/mail"
	"pinnacle_metals/internal/platform/pricefeed"
	"pinnacle_metals/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("production").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Env)
	log.Info("configuration loaded", "env", cfg.Env)

	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// 2. Database + schema
	db, err := database.Connect(rootCtx, cfg.DBConnStr)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(rootCtx, db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// 3. Outbound mail: Redis-backed queue + worker when configured, else direct sends
	sender := mail.NewSender(cfg.SMTP, log)
	var mailQueue service.MailQueue
	workers := worker.NewRunner(context.Background())
	if cfg.RedisAddr != "" {
		rdb, err := queue.ConnectRedis(rootCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		mailQueue = queue.NewRedisMailQueue(rdb, cfg.MailQueueName)
		workers.Go(worker.NewMailWorker(rdb, cfg.MailQueueName, sender, log).Start)
	} else {
		log.Info("REDIS_ADDR not set, sending mail directly")
		mailQueue = queue.NewDirectMailQueue(sender, log)
	}

	// 4. Repositories
	userRepo := repository.NewPgUserRepository(db)
	profileRepo := repository.NewPgProfileRepository(db)
	pricingRepo := repository.NewPgPricingRepository(db)
	documentRepo := repository.NewPgDocumentRepository(db)
	complaintRepo := repository.NewPgComplaintRepository(db)
	runTx := func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		return database.Tx(ctx, db, fn)
	}

	// 5. Services
	tokens := security.NewTokenService(cfg.JWTKey, cfg.JWTExp)
	feed := pricefeed.NewClient(pricefeed.Config{
		URL:     cfg.CopperPriceURL,
		APIKey:  cfg.GoldAPIKey,
		Timeout: cfg.PriceFeedTimeout,
		FXRate:  cfg.USDToGBPRate,
	})
	services := api.Services{
		Auth: service.NewAuthService(userRepo, profileRepo, tokens, runTx, mailQueue,
			mail.Templates{ClientOrigin: cfg.ClientOrigin, ResetExpiry: mail.Humanize(cfg.ResetTokenTTL)},
			service.AuthConfig{ResetTokenTTL: cfg.ResetTokenTTL, VerificationTokenTTL: cfg.VerificationTokenTTL},
			log),
		Account: service.NewAccountService(userRepo, profileRepo),
		Admin:   service.NewAdminService(userRepo, profileRepo, documentRepo, complaintRepo),
		Pricing: service.NewPricingService(pricingRepo, feed, service.PricingConfig{
			ReferencePrice: cfg.FallbackReferencePrice,
			Jitter:         cfg.FallbackJitter,
			Materials:      cfg.Materials,
		}, log),
		Documents:  service.NewDocumentService(documentRepo),
		Complaints: service.NewComplaintService(complaintRepo),
	}

	// 6. Router & HTTP Server
	var roles middleware.RoleSource
	if cfg.RecheckRole {
		roles = services.Admin
	}
	auth := middleware.NewAuth(tokens, middleware.DefaultFinders(cfg.AuthCookieName, cfg.TokenQueryParam), roles)
	cookie := handler.CookieConfig{Name: cfg.AuthCookieName, Secure: cfg.IsProduction(), TTL: cfg.JWTExp}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewRouter(services, auth, cookie, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	go func() {
		log.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("could not listen", "port", cfg.APIPort, "error", err)
			stopSignals()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	// An in-flight send finishes before Redis and the DB are closed.
	if err := workers.Stop(shutdownCtx); err != nil {
		log.Warn("mail worker did not stop before the shutdown deadline", "error", err)
		return
	}
	log.Info("server and worker stopped gracefully")
}
