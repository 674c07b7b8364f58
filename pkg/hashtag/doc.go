// Package hashtag extracts #hashtag and @mention tokens from free text.
//
// Extraction is a pure function of the input text and a [Config]. Patterns are
// regular expressions (compiled with [github.com/dlclark/regexp2], so Unicode
// classes like \p{L} and lookarounds are available) whose first capturing
// group is the token body. Captured bodies are lowercased with Unicode-aware
// case mapping and deduplicated, keeping first-occurrence order.
//
// # Usage
//
//	cfg := hashtag.DefaultConfig()
//
//	res, err := hashtag.Parse("Check out this #Laravel tutorial by @zeynallow #PHP", cfg)
//	// res.Hashtags: [laravel php]
//	// res.Mentions: [zeynallow]
//
// For repeated use, build an [Extractor] once; it compiles the patterns lazily
// and is safe for concurrent use:
//
//	ex := hashtag.New(cfg)
//	tags, err := ex.ExtractHashtags(post.Body)
//
// # Configuration
//
// [DefaultConfig] returns the defaults. [LoadConfig] decodes YAML on top of
// them, so a file only needs the keys it overrides:
//
//	hashtag_pattern: '#([\p{L}\d_]+)'
//	hashtag_url_prefix: /topics/
//	enable_tagify_links: true
//	match_timeout: 100ms
//
// # Errors
//
// Empty text never fails, even with a broken pattern. Otherwise a pattern that
// does not compile, or has no capturing group, yields a [*PatternError] that
// matches [ErrInvalidPattern] via [errors.Is] and names the failing pattern:
//
//	_, err := hashtag.Parse("text", cfg)
//	var perr *hashtag.PatternError
//	if errors.As(err, &perr) {
//	    log.Printf("bad %s pattern: %v", perr.Kind, perr.Err)
//	}
//
// When [Config.MatchTimeout] is positive, a match exceeding it returns
// [ErrMatchTimeout].
package hashtag
