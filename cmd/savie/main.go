package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savieapp/savie/internal/export"
	"github.com/savieapp/savie/internal/metrics"
	"github.com/savieapp/savie/internal/scheduler"
	"github.com/savieapp/savie/internal/service"
	"github.com/savieapp/savie/internal/storage/sqlite"
	"github.com/savieapp/savie/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// Colored tint output for humans, JSON when a collector ingests the logs.
	if getEnv("LOG_FORMAT", "tint") == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	} else {
		logging.Setup()
	}

	dbPath := getEnv("DB_PATH", "./data/savie.db")
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", dbPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "export-users" {
		if err := export.RegisteredUsersCSV(ctx, store, os.Stdout); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
		return
	}

	interval := scheduler.DefaultInterval
	if raw := os.Getenv("SCHEDULER_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			slog.Error("bad SCHEDULER_INTERVAL", "value", raw, "error", err)
			os.Exit(1)
		}
		interval = parsed
	}

	cfg := service.DefaultConfig()
	recurring := service.NewRecurringService(store, cfg)
	challenges := service.NewChallengeService(store)

	sched := scheduler.New(recurring, challenges, nil, interval)
	go sched.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Addr:    getEnv("METRICS_ADDR", ":9090"),
		Handler: mux,
	}

	go func() {
		slog.Info("metrics server starting", "address", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", "error", err)
	}
}
