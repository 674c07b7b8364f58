package hashtags

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/hashtags/pkg/cache"
	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/linkify"
	"github.com/dmitrymomot/hashtags/pkg/logger"
	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Service ties extraction and linkification to a Store. Safe for concurrent use.
type Service struct {
	store         store.Store
	cfg           hashtag.Config
	log           *slog.Logger
	extractor     *hashtag.Extractor
	linkifier     *linkify.Linkifier
	trendingCache cache.Cache[[]store.Hashtag]
	trending      *cache.Loader[[]store.Hashtag]
}

// New returns a Service persisting to st. A nil st means a fresh store.Memory.
//
// Example:
//
//	svc := hashtags.New(store.NewPostgres(pool),
//	    hashtags.WithConfig(cfg),
//	    hashtags.WithLogger(log),
//	    hashtags.WithTrendingCache(cache.NewRedis[[]store.Hashtag](client)),
//	)
func New(st store.Store, opts ...Option) *Service {
	if st == nil {
		st = store.NewMemory()
	}

	s := &Service{
		store: st,
		cfg:   hashtag.DefaultConfig(),
		log:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.extractor = hashtag.New(s.cfg)
	s.linkifier = linkify.New(s.cfg)

	if s.cfg.CacheTrending {
		if s.trendingCache == nil {
			s.trendingCache = cache.NewMemory[[]store.Hashtag](
				cache.WithCleanupInterval(0),
				cache.WithMaxEntries(64),
			)
		}
		s.trending = cache.NewLoader(s.trendingCache, s.cfg.TrendingCacheTTL)
	}

	return s
}

// Config returns the configuration the service runs with.
func (s *Service) Config() hashtag.Config {
	return s.cfg
}

// Store returns the underlying store.
func (s *Service) Store() store.Store {
	return s.store
}

func (s *Service) Parse(text string) (hashtag.Result, error) {
	return s.extractor.Parse(text)
}

func (s *Service) ExtractHashtags(text string) ([]hashtag.Token, error) {
	return s.extractor.ExtractHashtags(text)
}

func (s *Service) ExtractMentions(text string) ([]hashtag.Token, error) {
	return s.extractor.ExtractMentions(text)
}

func (s *Service) HasHashtags(text string) (bool, error) {
	return s.extractor.HasHashtags(text)
}

func (s *Service) HasMentions(text string) (bool, error) {
	return s.extractor.HasMentions(text)
}

// Tagify links hashtags and mentions in text. See linkify.Linkifier.Linkify.
func (s *Service) Tagify(text string, withLinks bool) (string, error) {
	return s.linkifier.Linkify(text, withLinks)
}

// TagifyHTML is Tagify with the text around the anchors HTML-escaped.
func (s *Service) TagifyHTML(text string, withLinks bool) (string, error) {
	return s.linkifier.HTML(text, withLinks)
}

// Hashtags extracts the hashtags of text and returns the stored record of
// each, creating missing ones, in first-occurrence order.
func (s *Service) Hashtags(ctx context.Context, text string) ([]store.Hashtag, error) {
	tokens, err := s.extractor.ExtractHashtags(text)
	if err != nil {
		return nil, err
	}

	out := make([]store.Hashtag, 0, len(tokens))
	for _, tok := range tokens {
		h, err := s.store.CreateOrGet(ctx, tok.String())
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Mentions returns the mentions of text. Mentions are not persisted.
func (s *Service) Mentions(text string) ([]hashtag.Token, error) {
	return s.extractor.ExtractMentions(text)
}

// Attach adds the hashtags of text to owner, keeping the ones it already has.
func (s *Service) Attach(ctx context.Context, owner store.Owner, text string) error {
	if !owner.Valid() {
		return store.ErrInvalidOwner
	}
	ids, err := s.hashtagIDs(ctx, text)
	if err != nil {
		return err
	}
	if err := s.store.Attach(ctx, owner, ids...); err != nil {
		return err
	}
	s.written(ctx, "attached", owner, len(ids))
	return nil
}

// Sync makes the hashtags of text the only ones attached to owner.
func (s *Service) Sync(ctx context.Context, owner store.Owner, text string) error {
	if !owner.Valid() {
		return store.ErrInvalidOwner
	}
	ids, err := s.hashtagIDs(ctx, text)
	if err != nil {
		return err
	}
	if err := s.store.Sync(ctx, owner, ids...); err != nil {
		return err
	}
	s.written(ctx, "synced", owner, len(ids))
	return nil
}

// DetachAll removes every hashtag from owner.
func (s *Service) DetachAll(ctx context.Context, owner store.Owner) error {
	if err := s.store.DetachAll(ctx, owner); err != nil {
		return err
	}
	s.written(ctx, "detached", owner, 0)
	return nil
}

// HasHashtag reports whether owner carries name, compared case-insensitively.
func (s *Service) HasHashtag(ctx context.Context, owner store.Owner, name string) (bool, error) {
	return s.store.HasHashtag(ctx, owner, name)
}

// HashtagNames returns the names of the owner's hashtags, sorted.
func (s *Service) HashtagNames(ctx context.Context, owner store.Owner) ([]string, error) {
	return s.ownerNames(ctx, owner, func(h store.Hashtag) string { return h.Name })
}

// DisplayNames returns the owner's hashtags with their '#' sigil, sorted.
func (s *Service) DisplayNames(ctx context.Context, owner store.Owner) ([]string, error) {
	return s.ownerNames(ctx, owner, store.Hashtag.DisplayName)
}

// Saved syncs the hashtags of a record after it is written, when
// Config.AutoAttachOnSave is on. Otherwise it does nothing.
func (s *Service) Saved(ctx context.Context, t Taggable) error {
	if !s.cfg.AutoAttachOnSave {
		return nil
	}
	return s.Sync(ctx, ownerOf(t), t.TaggableText())
}

// Trending returns the most used hashtags. Results are cached for
// Config.TrendingCacheTTL when Config.CacheTrending is on; writes through
// the service drop the cache.
func (s *Service) Trending(ctx context.Context, limit int) ([]store.Hashtag, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	if s.trending == nil {
		return s.store.Trending(ctx, limit)
	}
	return s.trending.GetOrSet(ctx, "trending:"+strconv.Itoa(limit), func(ctx context.Context) ([]store.Hashtag, error) {
		return s.store.Trending(ctx, limit)
	})
}

// RefreshTrending drops cached trending lists and loads the default one again.
func (s *Service) RefreshTrending(ctx context.Context) error {
	s.invalidate(ctx)
	_, err := s.Trending(ctx, store.DefaultLimit)
	return err
}

// Search returns hashtags whose name contains q.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]store.Hashtag, error) {
	return s.store.Search(ctx, q, limit)
}

// Hashtag returns the stored hashtag called name, with or without the sigil.
func (s *Service) Hashtag(ctx context.Context, name string) (store.Hashtag, error) {
	return s.store.Get(ctx, name)
}

// Owners returns the IDs of owners of ownerType carrying any or all of names.
func (s *Service) Owners(ctx context.Context, ownerType string, match store.Match, names ...string) ([]string, error) {
	return s.store.Owners(ctx, ownerType, match, names...)
}

func (s *Service) hashtagIDs(ctx context.Context, text string) ([]int64, error) {
	tags, err := s.Hashtags(ctx, text)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(tags))
	for i, h := range tags {
		ids[i] = h.ID
	}
	return ids, nil
}

func (s *Service) ownerNames(ctx context.Context, owner store.Owner, name func(store.Hashtag) string) ([]string, error) {
	tags, err := s.store.Hashtags(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tags))
	for i, h := range tags {
		out[i] = name(h)
	}
	return out, nil
}

func (s *Service) written(ctx context.Context, action string, owner store.Owner, n int) {
	s.invalidate(ctx)
	s.log.DebugContext(ctx, "hashtags "+action,
		slog.String("owner_type", owner.Type),
		slog.String("owner_id", owner.ID),
		slog.Int("count", n),
	)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.trending == nil {
		return
	}
	if err := s.trending.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate trending cache", slog.String("error", err.Error()))
	}
}
