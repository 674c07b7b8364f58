// Package cache provides a small generic cache with in-memory and Redis backends.
//
// The hashtag service uses it to keep trending lists between writes, but the
// types are generic over the value:
//
//	trending := cache.NewMemory[[]store.Hashtag](cache.WithMaxEntries(100))
//	defer trending.Close()
//
//	loader := cache.NewLoader[[]store.Hashtag](trending, time.Hour)
//	tags, err := loader.GetOrSet(ctx, "trending:10", func(ctx context.Context) ([]store.Hashtag, error) {
//	    return st.Trending(ctx, 10)
//	})
//
//	// after any write
//	_ = loader.Invalidate(ctx)
//
// TTL semantics for Set: positive expires after the duration, zero uses the
// cache default and negative never expires.
//
// # Backends
//
// Memory keeps entries in a map guarded by a mutex. A janitor goroutine purges
// expired entries; WithMaxEntries bounds the size.
//
// Redis stores JSON under "{prefix}:{key}" using a client from pkg/redis.
// Clear scans and deletes only the prefixed keys.
//
// # Loader
//
// Loader.GetOrSet collapses concurrent misses for one key into a single call
// through golang.org/x/sync/singleflight. Invalidate clears the cache and
// stops in-flight loads from writing stale values back.
package cache
