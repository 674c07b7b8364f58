package job

import "log/slog"

const (
	defaultMaxWorkers      = 10
	defaultMaxAttempts     = 5
	defaultTrendingRefresh = "*/15 * * * *"
)

type config struct {
	logger          *slog.Logger
	queue           string
	trendingRefresh string
	maxWorkers      int
	maxAttempts     int
}

func newConfig() *config {
	return &config{
		queue:           Queue,
		trendingRefresh: defaultTrendingRefresh,
		maxWorkers:      defaultMaxWorkers,
		maxAttempts:     defaultMaxAttempts,
	}
}

// Option configures the job manager.
type Option func(*config)

// WithLogger sets the logger for the manager, its workers and the River client.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithQueue sets the River queue the manager inserts into and works.
func WithQueue(name string) Option {
	return func(c *config) {
		if name != "" {
			c.queue = name
		}
	}
}

// WithMaxWorkers sets how many jobs are worked concurrently.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithMaxAttempts sets how many times a failing sync job is tried.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithTrendingRefresh sets the five-field cron expression for the periodic
// trending refresh. An empty expression disables it.
//
// Example:
//
//	job.WithTrendingRefresh("0 * * * *") // hourly
func WithTrendingRefresh(expr string) Option {
	return func(c *config) {
		c.trendingRefresh = expr
	}
}
