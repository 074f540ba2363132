package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db"
	"github.com/applytrack/applytrack/internal/db/repos"
	"github.com/applytrack/applytrack/internal/events"
	"github.com/applytrack/applytrack/internal/logger"
	"github.com/applytrack/applytrack/internal/server"
	"github.com/applytrack/applytrack/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatalf("Failed to load environment: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Configure(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	database, err := db.New(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	store := repos.NewStore(database)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	bus.Subscribe(events.EventApplicationMoved, events.LogOutcomes)
	bus.Start(ctx)

	companies := services.NewCompanyService(store)
	lifecycle := services.NewLifecycleService(store, companies,
		services.WithStoreTimeout(cfg.StoreTimeout),
		services.WithEvents(bus),
	)
	analytics := services.NewAnalyticsService(store,
		services.WithAnalyticsStoreTimeout(cfg.StoreTimeout),
		services.WithTimelineLocation(cfg.TimelineLocation),
	)

	var sweeper *services.HotSweeper
	if cfg.HotSweepSchedule != "" {
		sweeper, err = services.NewHotSweeper(analytics, cfg.HotSweepSchedule, cfg.StoreTimeout)
		if err != nil {
			logger.Fatalf("Failed to schedule hot sweep: %v", err)
		}
		sweeper.Start()
	}

	app, limiter := server.New(server.Services{
		Lifecycle: lifecycle,
		Analytics: analytics,
		Company:   companies,
	}, server.Options{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})
	if limiter != nil {
		go evictIdleLimiters(ctx, limiter.Cleanup)
	}

	go func() {
		logger.Infof("Starting API server on %s", cfg.ListenAddr)
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logger.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Infof("Received %s, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			logger.Errorf("Hot sweeper did not stop cleanly: %v", err)
		}
	}
	cancel()

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exited")
}

// evictIdleLimiters drops per-owner limiters that have been idle for a while
func evictIdleLimiters(ctx context.Context, cleanup func()) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanup()
		}
	}
}
