package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/health"
	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Service is the part of *hashtags.Service the handler serves.
type Service interface {
	Config() hashtag.Config
	Parse(text string) (hashtag.Result, error)
	TagifyHTML(text string, withLinks bool) (string, error)
	Trending(ctx context.Context, limit int) ([]store.Hashtag, error)
	Search(ctx context.Context, q string, limit int) ([]store.Hashtag, error)
	Hashtag(ctx context.Context, name string) (store.Hashtag, error)
	Owners(ctx context.Context, ownerType string, match store.Match, names ...string) ([]string, error)
}

// Handler serves the hashtag JSON API.
type Handler struct {
	svc         Service
	logger      *slog.Logger
	checks      health.Checks
	maxLimit    int
	maxBodySize int64
}

// New returns a Handler for svc. The pattern check is always part of /readyz.
func New(svc Service, opts ...Option) *Handler {
	h := &Handler{
		svc:         svc,
		logger:      slog.New(slog.DiscardHandler),
		checks:      health.Checks{"patterns": health.Patterns(svc.Config())},
		maxLimit:    defaultMaxLimit,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the API endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/tags/trending", h.wrap(h.trending))
	r.Get("/tags/search", h.wrap(h.search))
	r.Get("/tags/{name}", h.wrap(h.show))
	r.Post("/tagify", h.wrap(h.tagify))
	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(h.checks, health.WithLogger(h.logger)))
}

// Router returns a standalone router with request IDs and panic recovery.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	h.Routes(r)
	return r
}

type tagifyRequest struct {
	WithLinks *bool  `json:"with_links"`
	Text      string `json:"text"`
}

type tagifyResponse struct {
	HTML     string   `json:"html"`
	Hashtags []string `json:"hashtags"`
	Mentions []string `json:"mentions"`
}

type hashtagResponse struct {
	Hashtag store.Hashtag `json:"hashtag"`
	Owners  []string      `json:"owners"`
}

func (h *Handler) trending(w http.ResponseWriter, r *http.Request) error {
	tags, err := h.svc.Trending(r.Context(), h.limit(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, nonNil(tags))
	return nil
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) error {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return badRequest("query parameter q is required", nil)
	}
	tags, err := h.svc.Search(r.Context(), q, h.limit(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, nonNil(tags))
	return nil
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) error {
	tag, err := h.svc.Hashtag(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return err
	}

	resp := hashtagResponse{Hashtag: tag, Owners: []string{}}
	if ownerType := r.URL.Query().Get("type"); ownerType != "" {
		owners, err := h.svc.Owners(r.Context(), ownerType, store.MatchAny, tag.Name)
		if err != nil {
			return err
		}
		resp.Owners = nonNil(owners)
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *Handler) tagify(w http.ResponseWriter, r *http.Request) error {
	var req tagifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err := dec.Decode(&req); err != nil {
		return badRequest("invalid JSON body", err)
	}
	withLinks := req.WithLinks == nil || *req.WithLinks

	res, err := h.svc.Parse(req.Text)
	if err != nil {
		return err
	}
	html, err := h.svc.TagifyHTML(req.Text, withLinks)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, tagifyResponse{
		HTML:     html,
		Hashtags: nonNil(hashtag.Strings(res.Hashtags)),
		Mentions: nonNil(hashtag.Strings(res.Mentions)),
	})
	return nil
}

// limit reads the limit query parameter, falling back to store.DefaultLimit
// when absent or malformed and capping it at maxLimit.
func (h *Handler) limit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return store.DefaultLimit
	}
	return min(n, h.maxLimit)
}

func (h *Handler) wrap(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		he := toHTTPError(err)
		he.RequestID = middleware.GetReqID(r.Context())

		level := slog.LevelWarn
		if he.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", he.Code),
			slog.String("code", he.ErrorCode),
			slog.Any("error", he.Err),
		)

		writeJSON(w, he.Code, he)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
