// Package linkify turns hashtags and mentions in text into HTML anchors.
//
// The distinct tokens are found with [github.com/dmitrymomot/hashtags/pkg/hashtag]
// and every occurrence of "#token" or "@token" that is not glued to a preceding
// word character and does not run into a following one is replaced with:
//
//	<a href="/tags/laravel" class="hashtag-link" data-hashtag="laravel">#laravel</a>
//
// URL prefixes and CSS classes come from [hashtag.Config]; href, class, the data
// attribute and the visible text are escaped independently.
//
// Matching is case-insensitive: "#Laravel", "#laravel" and "#LARAVEL" all become
// the same anchor, which always shows the normalized lowercase token.
//
// All occurrences are replaced in a single pass over the original text, so
// markup inserted for one token is never rewritten by another.
//
// [Linkify] leaves the rest of the text untouched. [HTML] escapes it, which is
// what templates want for user-supplied text:
//
//	out, err := linkify.HTML(comment.Body, true, cfg)
package linkify
