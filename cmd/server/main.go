// Package main is the entry point for the sms-relay HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/handler"
	"github.com/ppopeskul/sms-relay/internal/middleware"
	"github.com/ppopeskul/sms-relay/internal/provider"
	"github.com/ppopeskul/sms-relay/internal/repository"
	"github.com/ppopeskul/sms-relay/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	repo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open message store", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close message store", zap.Error(err))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	providerClient := provider.NewClient(&cfg.Provider, logger)
	svc := service.NewService(cfg, repo, providerClient, redisClient, logger)

	handler := handler.NewHandler(cfg, svc, logger)

	router := setupRouter(handler)

	middlewareConfig := &middleware.Config{
		Logger: logger,
		CORS: &middleware.CORSConfig{
			AllowedOrigins:   cfg.Middleware.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           86400,
		},
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
	}

	finalHandler := middleware.Chain(middlewareConfig)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if svc.Sweeper.Enabled() {
		if err := svc.Sweeper.Start(); err != nil {
			logger.Error("Failed to start retention sweeper", zap.Error(err))
		}
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("storage_mode", repo.Mode()),
			zap.String("storage_location", repo.Location()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if svc.Sweeper.IsRunning() {
		if err := svc.Sweeper.Stop(); err != nil {
			logger.Error("Failed to stop retention sweeper", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// openRepository builds the configured message store backend.
func openRepository(cfg *config.Config, logger *zap.Logger) (repository.Repository, error) {
	switch cfg.Storage.Mode {
	case config.StorageModePostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return repository.NewPostgresRepository(db, &cfg.Database), nil

	case config.StorageModeMemory:
		logger.Info("Using in-memory message store",
			zap.Int("capacity", cfg.Storage.Capacity))
		return repository.NewMemoryRepository(cfg.Storage.Capacity), nil

	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Storage.Mode)
	}
}
