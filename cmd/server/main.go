package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"campus-canteen/internal/config"
	"campus-canteen/internal/database"
	"campus-canteen/internal/events"
	"campus-canteen/internal/logger"
	"campus-canteen/internal/metrics"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/server"
	"campus-canteen/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	// Connect to database
	db, err := database.NewConnection(database.ConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer publisher.Close()

	loginLimiter := middleware.NewRateLimiter(cfg.Server.LoginRateLimit, cfg.Server.LoginRateWindow)
	defer loginLimiter.Stop()

	handler, err := server.New(server.Options{
		DB:           db.DB,
		SessionStore: middleware.NewCookieStore(cfg.Session.Secret, cfg.Session.MaxAge, cfg.IsProduction()),
		Payments: services.NewPaymentService(services.StripeConfig{
			SecretKey: cfg.Stripe.SecretKey,
			APIURL:    cfg.Stripe.APIURL,
		}),
		Publisher:     publisher,
		Metrics:       metrics.New(),
		Logger:        logger.L(),
		LoginLimiter:  loginLimiter,
		BaseURL:       cfg.Server.BaseURL,
		Currency:      cfg.Payment.Currency,
		CallbackState: services.NewCallbackState(cfg.Payment.CallbackSecret, cfg.Payment.CallbackTTL),
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Server.Env, "base_url", cfg.Server.BaseURL, "db", db.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
