package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	defaultTimeout = 5 * time.Second
)

// CheckFunc reports whether a dependency is usable.
// db.Healthcheck and redis.Healthcheck return values of this shape.
type CheckFunc func(ctx context.Context) error

// Checks maps a check name to its function.
type Checks map[string]CheckFunc

// Response is the JSON body written by the handlers.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of one check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Option configures Readiness.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	timeout time.Duration
}

// WithTimeout bounds a whole readiness run. Default: 5 seconds
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger logs failed checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Patterns returns a check that fails while cfg holds a pattern that does not compile.
func Patterns(cfg hashtag.Config) CheckFunc {
	return func(context.Context) error {
		return cfg.Validate()
	}
}

// Run executes every check concurrently and aggregates the outcome.
func Run(ctx context.Context, checks Checks, opts ...Option) Response {
	o := options{timeout: defaultTimeout, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	resp := Response{Status: StatusHealthy}
	if len(checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var mu sync.Mutex
	resp.Checks = make(map[string]Check, len(checks))

	// Checks never return errors to the group so one failure does not cancel the rest.
	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			c := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				c = Check{Status: StatusUnhealthy, Error: err.Error()}
				o.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = c
			if c.Status == StatusUnhealthy {
				resp.Status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return resp
}

// Liveness always answers 200.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response{Status: StatusHealthy})
	}
}

// Readiness answers 200 when every check passes and 503 otherwise.
func Readiness(checks Checks, opts ...Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := Run(r.Context(), checks, opts...)
		status := http.StatusOK
		if resp.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
