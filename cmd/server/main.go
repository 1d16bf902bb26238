package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen_manager/internal/auth"
	"canteen_manager/internal/config"
	"canteen_manager/internal/database"
	"canteen_manager/internal/handlers"
	"canteen_manager/internal/metrics"
	"canteen_manager/internal/migrations"
	"canteen_manager/internal/redis"
	"canteen_manager/internal/repository"
	"canteen_manager/internal/repository/memory"
	"canteen_manager/internal/services"
	"canteen_manager/pkg/logging"
	"canteen_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []func(context.Context) error

	store, closeStore, err := openStore(cfg, &checks)
	if err != nil {
		return err
	}
	defer closeStore()

	var sessions auth.SessionStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		checks = append(checks, redisClient.Ping)
		sessions = redisClient
	} else {
		slog.Warn("REDIS_URL not set, sessions are kept in process memory")
		sessions = auth.NewMemorySessionStore()
	}

	notifier := services.NewNoopNotifier()
	if cfg.NotificationsEnabled() {
		notifier = services.NewWhatsAppNotifier(whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath))
	}

	logger := slog.Default()
	m := metrics.New()
	users := services.NewUserService(store, sessions, auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL()), logger)

	err = migrations.Seed(ctx, store, users, migrations.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		DemoCanteen:   cfg.StorageDriver == config.StorageMemory,
	})
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.Deps{
		Users:     users,
		Canteens:  services.NewCanteenService(store, logger),
		Menu:      services.NewMenuService(store, logger),
		Orders:    services.NewOrderService(store, notifier, m, logger),
		Inventory: services.NewInventoryService(store, logger),
		Expenses:  services.NewExpenseService(store, logger),
		Sales:     services.NewSalesService(store, logger),
		Metrics:   m,
		Health: func(ctx context.Context) error {
			for _, check := range checks {
				if err := check(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.ServerPort, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config, checks *[]func(context.Context) error) (repository.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	case config.StoragePostgres:
		db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
		if err != nil {
			return nil, nil, err
		}
		*checks = append(*checks, func(ctx context.Context) error { return database.Ping(ctx, db) })
		return repository.NewStore(db), func() {
			if err := database.Close(db); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
