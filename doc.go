// Package hashtags extracts hashtags and mentions from user text, turns them
// into links and keeps track of which records carry which hashtags.
//
// The parsing core lives in pkg/hashtag and pkg/linkify and needs nothing but
// a hashtag.Config. Service adds persistence on top of a store.Store:
//
//	svc := hashtags.New(store.NewMemory())
//
//	res, _ := svc.Parse("Learning #Go with @gopher")
//	// res.Hashtags == ["go"], res.Mentions == ["gopher"]
//
//	html, _ := svc.Tagify("Learning #Go", true)
//	// Learning <a href="/tags/go" class="hashtag-link" data-hashtag="go">#go</a>
//
//	owner := store.Owner{Type: "post", ID: "42"}
//	_ = svc.Sync(ctx, owner, "Learning #Go and #SQL")
//	names, _ := svc.HashtagNames(ctx, owner) // ["go", "sql"]
//
// # Records
//
// Types that implement Taggable get a Tagger through Service.For:
//
//	func (p Post) TaggableType() string { return "post" }
//	func (p Post) TaggableID() string   { return p.ID.String() }
//	func (p Post) TaggableText() string { return p.Body }
//
//	err := svc.For(post).Sync(ctx)
//
// Call Service.Saved after writing a record to sync its hashtags when
// auto_attach_on_save is enabled in the config.
//
// # Trending
//
// Trending results are cached when cache_trending is on, in process by
// default or in Redis through WithTrendingCache. Every write made through
// the service drops the cached lists.
//
// # Errors
//
// Invalid patterns surface as ErrInvalidPattern on the first call that parses
// non-empty text; hashtag.Config.Validate reports them up front.
package hashtags
