// Package app assembles the service graph shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"sales-tracker-scraper/internal/browser"
	"sales-tracker-scraper/internal/config"
	"sales-tracker-scraper/internal/database"
	"sales-tracker-scraper/internal/jobscraper"
	"sales-tracker-scraper/internal/logger"
	"sales-tracker-scraper/internal/metrics"
	"sales-tracker-scraper/internal/notify"
	"sales-tracker-scraper/internal/session"
)

// App owns every long-lived resource. Close releases them in reverse order.
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Store   *session.Store
	Service *jobscraper.Service
	Metrics *metrics.Metrics

	closers []func() error
}

// Options tweak what New builds.
type Options struct {
	// InstallBrowsers downloads the Playwright driver and Chromium first.
	InstallBrowsers bool
	// SkipBrowser leaves out the browser engine, for commands that only
	// touch the session store.
	SkipBrowser bool
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (_ *App, err error) {
	a := &App{Config: cfg, Logger: log, Metrics: metrics.New(nil)}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	repo, err := a.sessionRepository(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = session.NewStore(repo, session.NewFileCache(cfg.CachePath, log), cfg.SessionTTL, log)

	if opts.SkipBrowser {
		return a, nil
	}

	engine, err := browser.NewPlaywrightEngine(opts.InstallBrowsers)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, engine.Stop)

	driver := browser.NewDriver(engine, cfg.LaunchConfig(), a.Store, log)
	driver.NavigationTimeout = cfg.Browser.NavigationTimeout
	if cfg.ScreenshotDir != "" {
		driver.Screenshots = browser.NewScreenshotDebugger(cfg.ScreenshotDir, log)
	}

	notifier, err := a.notifier()
	if err != nil {
		return nil, err
	}

	a.Service, err = jobscraper.NewService(jobscraper.Options{
		Driver:   driver,
		Store:    a.Store,
		Logger:   log,
		Metrics:  a.Metrics,
		Notifier: notifier,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) sessionRepository(ctx context.Context) (session.Repository, error) {
	cfg := a.Config
	switch cfg.SessionBackend {
	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		a.Logger.Info("Using postgres session store")
		return session.NewPostgresRepository(pool), nil

	case config.BackendRedis:
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.Logger.Info("Using redis session store")
		return session.NewRedisRepository(client), nil

	default:
		a.Logger.Info("Using file session store only", logger.String("cache_path", cfg.CachePath))
		return nil, nil
	}
}

func (a *App) notifier() (notify.Notifier, error) {
	if a.Config.TelegramToken == "" {
		return notify.Nop{}, nil
	}
	tg, err := notify.NewTelegram(a.Config.TelegramToken, a.Config.TelegramChatID, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("init telegram notifier: %w", err)
	}
	return tg, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
