package dashboard

import (
	"context"
	"fmt"

	"facilitydash/adapters/source"
	"facilitydash/domain/facility"
	"facilitydash/internal/config"
	"facilitydash/internal/dataset"

	"github.com/jmoiron/sqlx"
)

// Loader resolves the dataset a variant reads, through the process-wide cache
type Loader struct {
	source string
	file   string
	table  string
	db     *sqlx.DB
	cache  *dataset.Cache
}

// NewLoader builds a loader for the configured data source. db is only used for the sql source.
func NewLoader(cfg *config.Config, db *sqlx.DB, cache *dataset.Cache) *Loader {
	if cache == nil {
		cache = dataset.NewCache()
	}
	return &Loader{
		source: cfg.Data.Source,
		file:   cfg.Data.File,
		table:  cfg.Data.Table,
		db:     db,
		cache:  cache,
	}
}

// Load returns the dataset for the variant, loading it on first use
func (l *Loader) Load(ctx context.Context, v Variant) (*facility.Dataset, error) {
	opts := v.LoadOptions()
	if l.source == config.SourceSQL {
		key := fmt.Sprintf("sql:%s|%s", l.table, opts.Key())
		return l.cache.Get(ctx, key, func(ctx context.Context) (*facility.Dataset, error) {
			return source.LoadTable(ctx, l.db, l.table, opts)
		})
	}
	key := fmt.Sprintf("file:%s|%s", l.file, opts.Key())
	return l.cache.Get(ctx, key, func(context.Context) (*facility.Dataset, error) {
		return source.Load(l.file, opts)
	})
}

// Cache exposes the underlying cache for health reporting
func (l *Loader) Cache() *dataset.Cache {
	return l.cache
}
