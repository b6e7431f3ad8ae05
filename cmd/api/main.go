package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campuskart/campuskart-backend/api/routes"
	"github.com/campuskart/campuskart-backend/internal/commission"
	"github.com/campuskart/campuskart-backend/internal/dispatch"
	"github.com/campuskart/campuskart-backend/internal/locations"
	"github.com/campuskart/campuskart-backend/internal/orders"
	"github.com/campuskart/campuskart-backend/internal/users"
	"github.com/campuskart/campuskart-backend/internal/vendors"
	"github.com/campuskart/campuskart-backend/internal/wallet"
	"github.com/campuskart/campuskart-backend/pkg/config"
	"github.com/campuskart/campuskart-backend/pkg/db"
	"github.com/campuskart/campuskart-backend/pkg/logger"
	"github.com/campuskart/campuskart-backend/pkg/metrics"
	"github.com/campuskart/campuskart-backend/pkg/migrate"
	"github.com/campuskart/campuskart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	dispatcher, err := dispatch.NewRedisDispatcher(redisClient, dispatchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatcher", err)
		os.Exit(1)
	}
	hub := dispatch.NewHub(cfg.Dispatch.ClientBuffer, logg, dispatchMetrics)

	gdb := dbClient.DB()
	locationsSvc, err := locations.NewService(locations.NewRepository(gdb))
	requireService(logg, "locations", err)
	vendorsSvc, err := vendors.NewService(vendors.NewRepository(gdb))
	requireService(logg, "vendors", err)
	usersSvc, err := users.NewService(users.NewRepository(gdb))
	requireService(logg, "users", err)
	commissionSvc, err := commission.NewService(commission.NewRepository(gdb))
	requireService(logg, "commission", err)

	walletRepo := wallet.NewRepository(gdb)
	walletSvc, err := wallet.NewService(walletRepo, dbClient)
	requireService(logg, "wallet", err)
	ledger, err := wallet.NewLedger(walletRepo)
	requireService(logg, "wallet ledger", err)

	ordersSvc, err := orders.NewService(
		orders.NewRepository(gdb),
		dbClient,
		vendors.NewRepository(gdb),
		users.NewRepository(gdb),
		commissionSvc,
		ledger,
		dispatcher,
		logg,
	)
	requireService(logg, "orders", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := hub.Run(ctx, redisClient); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "dispatch hub stopped unexpectedly", err)
		}
	}()

	handler := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Hub:        hub,
		Gatherer:   registry,
		Orders:     ordersSvc,
		Locations:  locationsSvc,
		Vendors:    vendorsSvc,
		Users:      usersSvc,
		Wallet:     walletSvc,
		Commission: commissionSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "error shutting down server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server stopped")
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
