package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/cayiba/cayiba-admin/internal/config"
	"github.com/cayiba/cayiba-admin/internal/middleware"
	"github.com/cayiba/cayiba-admin/internal/mockapi"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.LoadMockAPI()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	store, err := mockapi.NewStore(cfg.AdminUser, cfg.AdminPass, time.Now)
	if err != nil {
		logger.Error("failed to create store", "error", err)
		os.Exit(1)
	}
	store.Seed(120)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Mount("/", mockapi.NewServer(cfg, store, logger).Routes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("mock api starting", "port", cfg.Port, "prefix", cfg.Prefix, "admin", cfg.AdminUser)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down mock api")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}
}
