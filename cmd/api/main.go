package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"todoservice/internal/adapter/cache"
	"todoservice/internal/adapter/database"
	apphttp "todoservice/internal/adapter/http"
	"todoservice/internal/adapter/logger"
	"todoservice/internal/adapter/telemetry"
	"todoservice/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))

	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	appLogger, err := logger.New(cfg.App, cfg.Log)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer appLogger.Sync()

	tel, err := telemetry.NewContainer(ctx, cfg, appLogger)

	if err != nil {
		appLogger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	db, err := database.Open(ctx, cfg.Database)

	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}

	listCache, err := cache.New(ctx, cfg.Cache)

	if err != nil {
		appLogger.Fatal("Failed to initialize cache", zap.Error(err), zap.String("driver", cfg.Cache.Driver))
	}

	container := apphttp.NewContainer(db, listCache, cfg.Cache, tel.NewTelemetryProbe(), appLogger)
	router := apphttp.NewRouter(container, cfg, tel.AppMetrics, appLogger)
	server := apphttp.NewServer(cfg.HTTP, router, appLogger)

	appLogger.Info("Starting todoservice",
		zap.String("environment", cfg.App.Environment),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("https_enforced", cfg.HTTP.EnforceHTTPS))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
	}

	if listCache != nil {
		if err := listCache.Close(); err != nil {
			appLogger.Error("Cache close failed", zap.Error(err))
		}
	}

	if err := db.Close(); err != nil {
		appLogger.Error("Database close failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := tel.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Telemetry shutdown failed", zap.Error(err))
	}
}
