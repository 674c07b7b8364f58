package handler

import (
	"log/slog"

	"github.com/dmitrymomot/hashtags/pkg/health"
)

const (
	defaultMaxLimit    = 100
	defaultMaxBodySize = 1 << 20
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for request errors.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithReadinessCheck adds a named check to /readyz.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(h *Handler) {
		if name != "" && fn != nil {
			h.checks[name] = fn
		}
	}
}

// WithMaxLimit caps the limit query parameter.
func WithMaxLimit(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxLimit = n
		}
	}
}

// WithMaxBodySize caps the size of request bodies in bytes.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}
