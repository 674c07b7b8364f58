// Package redis opens go-redis clients for the trending cache.
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"),
//	    redis.WithPoolSize(20),
//	    redis.WithRetry(5, time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	trending := cache.NewRedis[[]store.Hashtag](client, cache.WithPrefix("hashtags:trending"))
//
// Only redis:// and rediss:// URLs are accepted. Healthcheck and Shutdown
// return closures for readiness probes and shutdown hooks.
package redis
