package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces keys written by Redis caches.
const DefaultPrefix = "hashtags"

// RedisOption configures Redis.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

// WithPrefix stores keys as "{prefix}:{key}". Clear only removes keys under
// the prefix, so caches sharing a database need distinct prefixes.
// Default: DefaultPrefix
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithRedisDefaultTTL sets the TTL used when Set gets zero. Default: 1 hour
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// Redis is a Cache storing JSON-encoded values in Redis.
type Redis[V any] struct {
	client redis.UniversalClient
	opts   redisOptions
}

var _ Cache[any] = (*Redis[any])(nil)

// NewRedis returns a Redis cache on client, usually opened with pkg/redis.Open.
//
// Example:
//
//	trending := cache.NewRedis[[]store.Hashtag](client,
//	    cache.WithPrefix("hashtags:trending"),
//	)
func NewRedis[V any](client redis.UniversalClient, opts ...RedisOption) *Redis[V] {
	o := redisOptions{prefix: DefaultPrefix, defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis[V]{client: client, opts: o}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var v V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	// Redis treats a zero expiration as "keep".
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear removes the keys under the prefix using SCAN, without blocking the server.
func (r *Redis[V]) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.opts.prefix+":*", 100).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *Redis[V]) key(k string) string {
	return r.opts.prefix + ":" + k
}
