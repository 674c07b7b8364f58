package hashtags

import (
	"log/slog"

	"github.com/dmitrymomot/hashtags/pkg/cache"
	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces hashtag.DefaultConfig.
func WithConfig(cfg hashtag.Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithLogger sets the service logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTrendingCache stores trending lists in c, e.g. a cache.Redis shared by
// several instances. Ignored when Config.CacheTrending is off.
// Defaults to a small in-process cache.
func WithTrendingCache(c cache.Cache[[]store.Hashtag]) Option {
	return func(s *Service) {
		if c != nil {
			s.trendingCache = c
		}
	}
}
