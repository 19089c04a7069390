package container

import (
	"context"
	"fmt"
	"time"

	"facilitydash/adapters/source"
	"facilitydash/internal"
	"facilitydash/internal/config"
	"facilitydash/internal/dashboard"
	"facilitydash/internal/dataset"

	"github.com/jmoiron/sqlx"
)

const connectTimeout = 10 * time.Second

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure, only set for the sql data source
	DB *sqlx.DB

	Cache  *dataset.Cache
	Loader *dashboard.Loader
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Packages log through DefaultLogger, so LOG_LEVEL applies everywhere
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	c := &Container{
		Config: cfg,
		Logger: internal.DefaultLogger,
		Cache:  dataset.NewCache(),
	}

	if cfg.Data.Source == config.SourceSQL {
		if err := c.initDatabase(); err != nil {
			return nil, err
		}
		c.Logger.Info("Using %s table %q as data source", cfg.Database.Driver, cfg.Data.Table)
	} else {
		c.Logger.Info("Using file data source: %s", cfg.Data.File)
	}

	c.Loader = dashboard.NewLoader(cfg, c.DB, c.Cache)
	return c, nil
}

// initDatabase opens the connection used by the sql data source
func (c *Container) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := source.OpenDatabase(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db
	return nil
}

// Warm loads the default variant's dataset ahead of the first request.
// A failure is logged and remembered by the cache, so the page shows it.
func (c *Container) Warm(ctx context.Context) {
	v, ok := dashboard.Lookup(c.Config.Dashboard.DefaultVariant)
	if !ok {
		return
	}
	if _, err := c.Loader.Load(ctx, v); err != nil {
		c.Logger.Warn("Initial load of %s failed: %v", v.Name, err)
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		c.Logger.Info("[Container] Closing database connection")
		return c.DB.Close()
	}
	return nil
}
