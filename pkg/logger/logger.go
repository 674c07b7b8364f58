package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config selects the output format, level and optional Sentry forwarding.
type Config struct {
	// Level is one of debug, info, warn or error. Default: info
	Level string `yaml:"level"`
	// Format is json or text. Default: json
	Format string `yaml:"format"`

	SentryDSN         string `yaml:"sentry_dsn"`
	SentryEnvironment string `yaml:"sentry_environment"`
	// SentryMinLevel is warn or error. Warnings and errors are stored as Sentry
	// logs; errors also open issues. Default: warn
	SentryMinLevel string `yaml:"sentry_min_level"`
}

// New returns a logger writing to w. Records also go to Sentry when
// cfg.SentryDSN is set; if the SDK cannot start, New logs the failure and
// keeps writing to w only.
func New(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	if cfg.SentryDSN != "" {
		if sh, err := sentryHandler(cfg); err != nil {
			slog.New(h).Error("failed to initialize sentry", slog.String("error", err.Error()))
		} else {
			h = fanout{h, sh}
		}
	}

	return slog.New(withContext(h, extractors...))
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func sentryHandler(cfg Config) (slog.Handler, error) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		EnableLogs:  true,
	}); err != nil {
		return nil, err
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if ParseLevel(cfg.SentryMinLevel) >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background()), nil
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	for _, h := range f {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
