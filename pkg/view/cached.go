package view

import (
	"time"

	"github.com/goliatone/go-htmlview/internal/cache"
)

const templateCacheUseCase = "templates"

// CachedLoader memoizes a Loader's successful loads. Misses and errors are
// never cached, so a template created after a miss is picked up on the next
// call.
type CachedLoader struct {
	next   Loader
	reader *cache.ReadThrough[any]
}

// NewCachedLoader wraps next. A ttl of zero keeps entries until Flush.
func NewCachedLoader(next Loader, ttl time.Duration) *CachedLoader {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	store := cache.New[any](templateCacheUseCase, ttl, cache.DefaultCleanupInterval)
	return &CachedLoader{
		next:   next,
		reader: cache.NewReadThrough(store, next.Load),
	}
}

// Load implements Loader.
func (c *CachedLoader) Load(path string) (any, error) {
	export, _, err := c.reader.Get(path)
	return export, err
}

// Cached reports whether path is currently held.
func (c *CachedLoader) Cached(path string) bool {
	_, ok := c.reader.Store().Get(path)
	return ok
}

// Forget drops paths from the cache.
func (c *CachedLoader) Forget(paths ...string) {
	c.reader.Store().Delete(paths...)
}

// Flush drops every cached template.
func (c *CachedLoader) Flush() {
	c.reader.Store().Flush()
}

// Len reports the number of cached templates.
func (c *CachedLoader) Len() int {
	return c.reader.Store().Len()
}
