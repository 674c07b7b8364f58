package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextExtractor pulls an attribute out of a context at log time.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type ownerKey struct{}

// WithOwner stores the type and ID of the record being tagged, for OwnerExtractor.
func WithOwner(ctx context.Context, ownerType, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, [2]string{ownerType, ownerID})
}

// OwnerExtractor adds an "owner" group set by WithOwner.
func OwnerExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		o, ok := ctx.Value(ownerKey{}).([2]string)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Group("owner", slog.String("type", o[0]), slog.String("id", o[1])), true
	}
}

// RequestIDExtractor adds the request ID set by chi's RequestID middleware.
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := middleware.GetReqID(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}

// contextHandler adds extracted attributes to every record.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func withContext(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	if len(clean) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: clean}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
