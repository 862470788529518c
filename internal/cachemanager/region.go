// Package cachemanager wraps go-cache with typed, namespaced TTL regions.
// Each registry owns one Region; suffixes address the cached views inside it.
package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/OmenApps/stratagem/internal/log"
)

const DefaultTTL = 300 * time.Second
const DefaultCleanupInterval = 10 * time.Minute

// Region is a named TTL cache. Values are stored under
// "stratagem:<region>:<suffix>" keys so regions never collide.
type Region[V any] struct {
	name  string
	ttl   time.Duration
	cache *gocache.Cache
}

// NewRegion creates a cache region with the given default TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewRegion[V any](name string, ttl time.Duration) *Region[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Region[V]{
		name:  name,
		ttl:   ttl,
		cache: gocache.New(ttl, DefaultCleanupInterval),
	}
}

// Key returns the full cache key for a suffix.
func (r *Region[V]) Key(suffix string) string {
	return "stratagem:" + r.name + ":" + suffix
}

// TTL returns the region's default expiration.
func (r *Region[V]) TTL() time.Duration {
	return r.ttl
}

// Get retrieves an item by suffix.
func (r *Region[V]) Get(suffix string) (V, bool) {
	var zeroValue V

	value, found := r.cache.Get(r.Key(suffix))
	if !found {
		return zeroValue, false
	}

	// Type assertion check to ensure the type is correct
	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "key", r.Key(suffix))
		return zeroValue, false
	}

	log.Debug(log.CatCache, "cache hit", "key", r.Key(suffix))
	return v, true
}

// Set stores a value under a suffix with the region's default TTL.
func (r *Region[V]) Set(suffix string, value V) {
	r.cache.Set(r.Key(suffix), value, r.ttl)
}

// SetWithTTL stores a value with an explicit TTL.
func (r *Region[V]) SetWithTTL(suffix string, value V, ttl time.Duration) {
	r.cache.Set(r.Key(suffix), value, ttl)
}

// Delete removes values by suffix.
func (r *Region[V]) Delete(suffixes ...string) {
	for _, suffix := range suffixes {
		r.cache.Delete(r.Key(suffix))
	}
}

// Flush removes every value in the region.
func (r *Region[V]) Flush() {
	r.cache.Flush()
}
