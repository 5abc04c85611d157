// Package cache provides a typed in-memory store backed by go-cache plus a
// read-through helper used to memoize loaded templates.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// NoExpiration keeps entries until they are deleted or flushed.
	NoExpiration = gocache.NoExpiration
	// DefaultCleanupInterval controls how often expired entries are purged.
	DefaultCleanupInterval = 10 * time.Minute
)

// Store is a typed wrapper over go-cache. It is safe for concurrent use.
type Store[V any] struct {
	useCase string
	cache   *gocache.Cache
	ttl     time.Duration
}

// New creates a store whose entries expire after ttl. Pass NoExpiration to
// keep entries forever.
func New[V any](useCase string, ttl, cleanupInterval time.Duration) *Store[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Store[V]{
		useCase: useCase,
		cache:   gocache.New(ttl, cleanupInterval),
		ttl:     ttl,
	}
}

// UseCase names the store, for logging.
func (s *Store[V]) UseCase() string {
	return s.useCase
}

// Get returns the value cached under key.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V

	value, found := s.cache.Get(key)
	if !found {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set stores value under key using the store's default expiration.
func (s *Store[V]) Set(key string, value V) {
	s.cache.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes keys from the store.
func (s *Store[V]) Delete(keys ...string) {
	for _, key := range keys {
		s.cache.Delete(key)
	}
}

// Flush removes every entry.
func (s *Store[V]) Flush() {
	s.cache.Flush()
}

// Len reports the number of cached entries, including expired ones that
// have not been purged yet.
func (s *Store[V]) Len() int {
	return s.cache.ItemCount()
}

// ReadThrough loads values through fn on a miss and caches successes.
// Errors are never cached.
type ReadThrough[V any] struct {
	store *Store[V]
	fn    func(key string) (V, error)
}

// NewReadThrough wires fn behind store.
func NewReadThrough[V any](store *Store[V], fn func(key string) (V, error)) *ReadThrough[V] {
	return &ReadThrough[V]{store: store, fn: fn}
}

// Get returns the cached value for key, loading it on a miss. The boolean
// reports whether the value came from the cache.
func (r *ReadThrough[V]) Get(key string) (V, bool, error) {
	if value, ok := r.store.Get(key); ok {
		return value, true, nil
	}

	value, err := r.fn(key)
	if err != nil {
		return value, false, err
	}
	r.store.Set(key, value)
	return value, false, nil
}

// Store exposes the backing store.
func (r *ReadThrough[V]) Store() *Store[V] {
	return r.store
}
