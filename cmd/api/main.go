package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"cvchain-backend/config"
	v1 "cvchain-backend/internal/delivery/http/v1"
	"cvchain-backend/internal/ledger"
	"cvchain-backend/internal/ledger/state"
	"cvchain-backend/pkg/auth"
	"cvchain-backend/pkg/logger"
	"cvchain-backend/pkg/redis"
	"cvchain-backend/pkg/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	logger.Log.Info("Starting cvchain backend", "port", cfg.Port, "backend", cfg.StateBackend)

	store, err := openStore(cfg)
	if err != nil {
		logger.Log.Error("Failed to open state store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
	}

	engine := ledger.NewEngine(store)

	if cfg.AutoInitLedger {
		now := time.Now()
		ts := ledger.Timestamp{Seconds: now.Unix(), Nanos: int32(now.Nanosecond())}
		if _, err := engine.Submit("InitLedger", nil, ts); err != nil {
			logger.Log.Error("InitLedger failed", "error", err)
			os.Exit(1)
		}
		logger.Log.Info("Ledger initialized")
	}

	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

	validate := validator.New()
	validation.Register(validate)

	router := v1.NewRouter(v1.RouterDeps{
		Ledger:   engine,
		Tokens:   tokens,
		Validate: validate,
		Config:   cfg,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func openStore(cfg *config.Config) (state.Store, error) {
	switch cfg.StateBackend {
	case config.BackendMemory:
		return state.NewMemStore(), nil
	case config.BackendBadger:
		return state.NewBadgerStore(cfg.BadgerPath)
	case config.BackendPostgres:
		return state.NewPostgresStore(cfg.DBUrl)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
