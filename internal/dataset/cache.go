package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"facilitydash/domain/facility"
	"facilitydash/internal"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a dataset for one cache key
type LoadFunc func(ctx context.Context) (*facility.Dataset, error)

type entry struct {
	data     *facility.Dataset
	err      error
	loadedAt time.Time
}

// Cache memoizes dataset loads for the lifetime of the process.
// Each key is computed at most once; failures are remembered too, except
// cancellations and timeouts, which are retried on the next call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the cached result for key, running load on first use.
// The load ignores cancellation of ctx, and a result that ends in a
// cancellation or timeout is returned but not stored.
func (c *Cache) Get(ctx context.Context, key string, load LoadFunc) (*facility.Dataset, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		internal.DefaultLogger.Trace("[DatasetCache] Hit for %s", key)
		return e.data, e.err
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return e, nil
		}

		data, err := load(context.WithoutCancel(ctx))
		e = entry{data: data, err: err, loadedAt: time.Now()}
		if transient(err) {
			internal.DefaultLogger.Warn("[DatasetCache] Load for %s interrupted, not caching: %v", key, err)
			return e, nil
		}
		if err != nil {
			internal.DefaultLogger.Error("[DatasetCache] Load for %s failed: %v", key, err)
		} else {
			internal.DefaultLogger.Info("[DatasetCache] Cached %s (%d rows)", key, data.Len())
		}

		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})

	e = v.(entry)
	return e.data, e.err
}

// transient reports errors that say nothing about the data source itself
func transient(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// LoadedAt reports when key was computed
func (c *Cache) LoadedAt(key string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.loadedAt, ok
}

// Len returns the number of cached keys
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
