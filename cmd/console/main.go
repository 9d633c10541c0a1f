package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/config"
	"github.com/cayiba/cayiba-admin/internal/handler"
	"github.com/cayiba/cayiba-admin/internal/middleware"
	"github.com/cayiba/cayiba-admin/internal/querycache"
	"github.com/cayiba/cayiba-admin/internal/repository"
	"github.com/cayiba/cayiba-admin/internal/service"
	"github.com/cayiba/cayiba-admin/internal/session"
	"github.com/cayiba/cayiba-admin/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := newLogger(cfg.Env)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error("storage unavailable", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	renderer, err := web.NewRenderer(logger)
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	api := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL,
		Prefix:  cfg.APIPrefix,
		Timeout: cfg.APITimeout,
		Logger:  logger,
	})

	caches := querycache.NewRegistry(cfg.CacheStaleTime, cfg.CacheIdleTTL, logger)
	go caches.Run(ctx, time.Minute)

	boundary := &middleware.Boundary{
		Cookie:  middleware.SessionCookie{Name: cfg.CookieName, Secure: cfg.CookieSecure},
		Manager: session.NewManager(storage, session.WithLogger(logger)),
		Caches:  caches,
	}
	screens := &handler.Screens{Renderer: renderer, Boundary: boundary, Logger: logger}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(screens, service.NewAuthService(api, logger)),
		Dashboard:      handler.NewDashboardHandler(screens, service.NewDashboardService(api, cfg.RenderBudget)),
		SubAdmins:      handler.NewSubAdminHandler(screens, service.NewSubAdminService(api), cfg.RenderBudget),
		Advertisements: handler.NewAdvertisementHandler(screens, service.NewAdvertisementService(api, logger), cfg.RenderBudget),
		Boundary:       boundary,
		CSRFKey:        cfg.CSRFKey,
		LoginRPS:       cfg.LoginRPS,
		LoginBurst:     cfg.LoginBurst,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("console starting", "port", cfg.Port, "env", cfg.Env, "api", cfg.APIBaseURL, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down console")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("console stopped")
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openStorage connects the configured session storage backend.
func openStorage(ctx context.Context, cfg config.Config) (repository.Storage, func(), error) {
	switch cfg.StorageDriver {
	case "mysql":
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewMySQLStorage(db), func() { db.Close() }, nil
	case "redis":
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStorage(client, cfg.SessionTTL), func() { client.Close() }, nil
	default:
		return repository.NewMemoryStorage(), func() {}, nil
	}
}
