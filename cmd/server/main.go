package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/api"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/cartstore"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/catalog"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/checkout"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/repository"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting itpshop-api",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.Bool("erp_configured", cfg.ERP.Configured()),
	)
	if !cfg.ERP.Configured() {
		logger.Warn("ERP credentials not set, proxy endpoints will answer 500 until ERP_BASE_URL, ERP_API_KEY and ERP_API_SECRET are provided")
	}

	// Carts live in Redis when an address is configured, otherwise in
	// process memory (lost on restart).
	var carts cartstore.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
		}
		cancel()
		carts = cartstore.NewRedisStore(rdb, cfg.Redis.CartTTL, logger)
		logger.Info("Using Redis cart store", zap.String("addr", cfg.Redis.Addr))
	} else {
		carts = cartstore.NewMemoryStore(logger)
		logger.Info("Using in-memory cart store")
	}

	// Order records are optional: without a database the storefront still
	// works, outcomes are just not mirrored.
	var records repository.OrderRecords
	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		records = postgres.NewOrderRecordRepository(db, logger)
		logger.Info("Order record mirror enabled", zap.String("host", cfg.Database.Host))
	}

	erpClient := erp.NewClient(cfg.ERP, cfg.Catalog.PageLength, logger)
	catalogSvc := catalog.NewService(erpClient, cfg.Catalog.CacheTTL, logger)
	submitter := checkout.NewSubmitter(erpClient, carts, records, cfg.ERP, cfg.Checkout, logger)

	router := api.NewRouter(cfg, api.Deps{
		ERP:       erpClient,
		Catalog:   catalogSvc,
		Carts:     carts,
		Submitter: submitter,
		Records:   records,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
