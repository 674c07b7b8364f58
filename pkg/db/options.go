package db

import "time"

// Option configures the connection pool created by Open.
type Option func(*options)

type options struct {
	maxConns          int32
	minConns          int32
	healthCheckPeriod time.Duration
	maxConnIdleTime   time.Duration
	maxConnLifetime   time.Duration
	retryAttempts     int
	retryInterval     time.Duration
}

func defaultOptions() *options {
	return &options{
		maxConns:          10,
		minConns:          2,
		healthCheckPeriod: time.Minute,
		maxConnIdleTime:   10 * time.Minute,
		maxConnLifetime:   30 * time.Minute,
		retryAttempts:     3,
		retryInterval:     2 * time.Second,
	}
}

// WithMaxConns sets the pool size. Default: 10
func WithMaxConns(n int32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithMinConns sets how many connections the pool keeps open. Default: 2
func WithMinConns(n int32) Option {
	return func(o *options) {
		if n >= 0 {
			o.minConns = n
		}
	}
}

// WithHealthCheckPeriod sets how often idle connections are checked. Default: 1 minute
func WithHealthCheckPeriod(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.healthCheckPeriod = d
		}
	}
}

// WithConnLifetime sets the idle and total lifetime of a connection.
// Default: 10 minutes idle, 30 minutes total.
func WithConnLifetime(idle, total time.Duration) Option {
	return func(o *options) {
		if idle > 0 {
			o.maxConnIdleTime = idle
		}
		if total > 0 {
			o.maxConnLifetime = total
		}
	}
}

// WithRetry configures connection attempts at startup.
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
	MaxConns      int32         `yaml:"max_conns"`
	MinConns      int32         `yaml:"min_conns"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Options converts the non-zero fields of c into Open options.
func (c Config) Options() []Option {
	var opts []Option
	if c.MaxConns > 0 {
		opts = append(opts, WithMaxConns(c.MaxConns))
	}
	if c.MinConns > 0 {
		opts = append(opts, WithMinConns(c.MinConns))
	}
	if c.RetryAttempts > 0 {
		opts = append(opts, WithRetry(c.RetryAttempts, c.RetryInterval))
	}
	return opts
}
