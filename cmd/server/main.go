package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sales-tracker-scraper/internal/api"
	"sales-tracker-scraper/internal/app"
	"sales-tracker-scraper/internal/config"
	"sales-tracker-scraper/internal/logger"
	"sales-tracker-scraper/internal/scheduler"

	"github.com/gin-gonic/gin"
)

func main() {
	//load config
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLog, app.Options{InstallBrowsers: true})
	if err != nil {
		appLog.Error("Failed to start", logger.Err(err))
		return
	}
	defer func() {
		if err := a.Close(); err != nil {
			appLog.Warn("Shutdown finished with errors", logger.Err(err))
		}
	}()

	purge := scheduler.New(a.Store, cfg.PurgeSchedule, appLog)
	if err := purge.Start(ctx); err != nil {
		appLog.Error("Failed to start purge scheduler", logger.Err(err))
		return
	}
	defer purge.Stop()

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(a.Service, appLog)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, a.Metrics.Handler(), appLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("Server listening", logger.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Server stopped", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutting down")

	// interactive logins can hold a request open for minutes; do not wait for them
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Warn("Graceful shutdown timed out", logger.Err(err))
	}
}
