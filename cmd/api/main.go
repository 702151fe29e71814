package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accountbot/api/internal/app"
	"github.com/accountbot/api/internal/clock"
	"github.com/accountbot/api/internal/config"
	"github.com/accountbot/api/internal/notify"
	"github.com/accountbot/api/internal/storage/postgres"
	transporthttp "github.com/accountbot/api/internal/transport/http"
	"github.com/accountbot/api/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	configPath := pflag.String("config", os.Getenv("ACCOUNTBOT_CONFIG"), "path to YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.AdminToken == "" {
		logger.Printf("WARN: admin token not set, ingest and delete endpoints are disabled")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	var notifier app.Notifier
	if cfg.Telegram.Enabled() {
		notifier = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		logger.Printf("review notifications go to Telegram chat %s", cfg.Telegram.ChatID)
	} else {
		notifier = notify.NewLog(logger)
		logger.Printf("WARN: Telegram not configured, reviews are logged locally")
	}

	inventoryRepo := postgres.NewInventoryRepository(pool)
	inventorySvc := app.NewInventoryService(inventoryRepo, clock.NewSystem())
	allocationRepo := postgres.NewAllocationRepository(pool)
	allocationSvc := app.NewAllocationService(allocationRepo, clock.NewSystem())
	reviewRepo := postgres.NewReviewRepository(pool)
	reviewSvc := app.NewReviewService(reviewRepo, clock.NewSystem(), notifier, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/platforms", transporthttp.HandleListPlatforms(inventorySvc))
	mux.Handle("/platforms/", transporthttp.RequireAdmin(cfg.AdminToken, transporthttp.HandlePlatformAdmin(inventorySvc)))
	mux.Handle("/allocations", transporthttp.HandleAllocate(allocationSvc))
	mux.Handle("/reviews", transporthttp.HandleSubmitReview(reviewSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
