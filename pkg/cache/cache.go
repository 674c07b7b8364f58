package cache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of one type under string keys.
//
// A positive ttl passed to Set expires the entry after that duration,
// zero uses the cache default and a negative ttl keeps the entry until it is
// deleted or cleared.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing or expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context) error
}

// Loader reads through a Cache, computing misses at most once per key at a time.
type Loader[V any] struct {
	cache Cache[V]
	ttl   time.Duration
	group singleflight.Group
	gen   atomic.Uint64
}

// NewLoader returns a Loader caching computed values in c for ttl.
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl}
}

// Cache returns the underlying cache.
func (l *Loader[V]) Cache() Cache[V] {
	return l.cache
}

// GetOrSet returns the cached value for key or calls fn and caches its result.
// Concurrent misses for the same key share one call to fn, which runs with a
// context that is never canceled; a caller whose ctx ends returns ctx.Err()
// without stopping the shared call. Errors from fn are returned and nothing
// is cached; errors writing the cache are ignored.
func (l *Loader[V]) GetOrSet(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	gen := l.gen.Load()
	ch := l.group.DoChan(strconv.FormatUint(gen, 10)+":"+key, func() (any, error) {
		// The flight is shared, so one caller giving up must not fail the others.
		fctx := context.WithoutCancel(ctx)
		v, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		if l.gen.Load() != gen {
			return v, nil
		}
		_ = l.cache.Set(fctx, key, v, l.ttl)
		// Invalidate may have cleared the cache between the check and Set.
		if l.gen.Load() != gen {
			_ = l.cache.Delete(fctx, key)
		}
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Invalidate clears the cache. Loads already in flight still return their
// result to their callers but no longer write it to the cache.
func (l *Loader[V]) Invalidate(ctx context.Context) error {
	l.gen.Add(1)
	return l.cache.Clear(ctx)
}
