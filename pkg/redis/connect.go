package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures the client created by Open.
type Option func(*options)

type options struct {
	poolSize      int
	minIdleConns  int
	dialTimeout   time.Duration
	ioTimeout     time.Duration
	retryAttempts int
	retryInterval time.Duration
}

// WithPoolSize sets the maximum number of connections. Default: 10
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithMinIdleConns sets how many idle connections are kept. Default: 2
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minIdleConns = n
		}
	}
}

// WithTimeouts sets the dial timeout and the read/write timeout.
// Default: 5 seconds to dial, 3 seconds per command.
func WithTimeouts(dial, io time.Duration) Option {
	return func(o *options) {
		if dial > 0 {
			o.dialTimeout = dial
		}
		if io > 0 {
			o.ioTimeout = io
		}
	}
}

// WithRetry configures startup connection attempts.
// The wait before attempt n+1 is n*interval. Default: 3 attempts, 2 seconds.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// Config is the YAML form of the connection settings.
type Config struct {
	URL           string        `yaml:"url"`
	PoolSize      int           `yaml:"pool_size"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Options converts the non-zero fields of c into Open options.
func (c Config) Options() []Option {
	var opts []Option
	if c.PoolSize > 0 {
		opts = append(opts, WithPoolSize(c.PoolSize))
	}
	if c.RetryAttempts > 0 {
		opts = append(opts, WithRetry(c.RetryAttempts, c.RetryInterval))
	}
	return opts
}

// Open parses a redis:// or rediss:// URL, connects and pings the server,
// retrying with a linear backoff.
//
// Example:
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0", redis.WithPoolSize(20))
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := &options{
		poolSize:      10,
		minIdleConns:  2,
		dialTimeout:   5 * time.Second,
		ioTimeout:     3 * time.Second,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	ro.PoolSize = o.poolSize
	ro.MinIdleConns = o.minIdleConns
	ro.DialTimeout = o.dialTimeout
	ro.ReadTimeout = o.ioTimeout
	ro.WriteTimeout = o.ioTimeout

	var lastErr error
	for i := range max(o.retryAttempts, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrConnectionFailed, ctx.Err())
			case <-time.After(time.Duration(i) * o.retryInterval):
			}
		}

		client := redis.NewClient(ro)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck returns a readiness check that pings the server.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a hook that closes the client.
func Shutdown(client redis.UniversalClient) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
