// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI and the API server.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/config"
	"github.com/JakeFAU/bbref-scraper/internal/fetch"
	"github.com/JakeFAU/bbref-scraper/internal/logging"
	"github.com/JakeFAU/bbref-scraper/internal/metrics"
	"github.com/JakeFAU/bbref-scraper/internal/scraper"
	"github.com/JakeFAU/bbref-scraper/internal/storage/pages"
)

// App holds the shared services built once at startup.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	fetcher *fetch.Fetcher
	client  *scraper.Client
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Fetcher returns the caching, paced page fetcher.
func (a *App) Fetcher() *fetch.Fetcher {
	return a.fetcher
}

// Client returns the scraper client every command goes through.
func (a *App) Client() *scraper.Client {
	return a.client
}

// Pages opens the snapshot store. It is built on demand so commands that
// never save pages do not create the directory.
func (a *App) Pages() (*pages.Store, error) {
	store, err := pages.New(pages.Config{BaseDir: a.cfg.Snapshot.Dir})
	if err != nil {
		return nil, fmt.Errorf("open page store: %w", err)
	}
	return store, nil
}

// New builds the services from cfg. A nil logger is built from the logging
// section.
func New(_ context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		l, err := logging.New(cfg.Logging)
		if err != nil {
			return nil, err
		}
		logger = l
	}
	metrics.Init()

	site, err := scraper.NewSite(cfg.Site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	initial, maxDelay := cfg.Backoff()
	f, err := fetch.New(fetch.Config{
		UserAgent:      cfg.Fetch.UserAgent,
		Timeout:        cfg.Timeout(),
		MinInterval:    cfg.MinInterval(),
		CacheSize:      cfg.Fetch.CacheSize,
		MaxRetries:     cfg.HTTP.MaxRetries,
		BackoffInitial: initial,
		BackoffMax:     maxDelay,
	}, logger.Named("fetch"))
	if err != nil {
		return nil, fmt.Errorf("fetcher: %w", err)
	}

	client := scraper.NewClient(f, scraper.Options{
		Site:    site,
		Workers: cfg.Bulk.Workers,
		Logger:  logger.Named("scraper"),
	})

	logger.Debug("application services initialized",
		zap.String("base_url", site.Base()),
		zap.Int("workers", cfg.Bulk.Workers),
		zap.Int("cache_size", cfg.Fetch.CacheSize),
	)

	return &App{cfg: cfg, logger: logger, fetcher: f, client: client}, nil
}

// Close flushes the logger. It is called by a Cobra hook after the command
// finishes.
func (a *App) Close() {
	// Sync fails on console handles on some platforms; there is nothing left
	// to report it to.
	_ = a.logger.Sync() //nolint:errcheck // best-effort flush
}

type ctxKey struct{}

// WithContext stores a in ctx for subcommands.
func WithContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App stored by WithContext.
func FromContext(ctx context.Context) (*App, bool) {
	a, ok := ctx.Value(ctxKey{}).(*App)
	return a, ok
}
