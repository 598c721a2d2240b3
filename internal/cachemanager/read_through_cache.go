package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads values on a miss and stores them under a key derived
// from the load input. Hits slide the entry's expiry forward, so values in
// steady use never expire. Load errors are returned and not cached.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache CacheManager[K, V]
	key   func(input I) K
	load  func(ctx context.Context, input I) (V, error)
	ttl   time.Duration
}

// NewReadThroughCache wraps cache. A nil cache loads on every call.
func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	key func(input I) K,
	load func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache: cache,
		key:   key,
		load:  load,
		ttl:   ttl,
	}
}

// Get returns the value for input, loading and storing it on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, input I) (V, error) {
	if r.cache == nil {
		return r.load(ctx, input)
	}

	k := r.key(input)
	if value, ok := r.cache.GetWithRefresh(ctx, k, r.ttl); ok {
		return value, nil
	}

	value, err := r.load(ctx, input)
	if err != nil {
		var zero V
		return zero, err
	}
	r.cache.Set(ctx, k, value, r.ttl)
	return value, nil
}
