package view

import (
	"context"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/linkify"
)

// FuncMap returns html/template functions bound to cfg:
//
//	{{ hashtags .Body }}              escaped text with hashtags and mentions linked
//	{{ hashtagLinks .Body false }}    same, with links switchable per call
//	{{ extractHashtags .Body }}       []string of hashtags
//	{{ extractMentions .Body }}       []string of mentions
//	{{ if hasHashtags .Body }}...{{ end }}
//	{{ if hasMentions .Body }}...{{ end }}
//
// An invalid pattern in cfg fails template execution.
func FuncMap(cfg hashtag.Config) template.FuncMap {
	l := linkify.New(cfg)
	ex := hashtag.New(cfg)

	tagify := func(text string, withLinks bool) (template.HTML, error) {
		out, err := l.HTML(text, withLinks)
		if err != nil {
			return "", err
		}
		return template.HTML(out), nil //nolint:gosec // everything outside the anchors is escaped
	}

	return template.FuncMap{
		"hashtags": func(text string) (template.HTML, error) {
			return tagify(text, true)
		},
		"hashtagLinks": tagify,
		"extractHashtags": func(text string) ([]string, error) {
			tokens, err := ex.ExtractHashtags(text)
			return hashtag.Strings(tokens), err
		},
		"extractMentions": func(text string) ([]string, error) {
			tokens, err := ex.ExtractMentions(text)
			return hashtag.Strings(tokens), err
		},
		"hasHashtags": ex.HasHashtags,
		"hasMentions": ex.HasMentions,
	}
}

// Tagify renders text as escaped HTML with hashtags and mentions linked.
//
//	templ PostBody(p Post, cfg hashtag.Config) {
//	    <div class="post">@view.Tagify(p.Body, true, cfg)</div>
//	}
func Tagify(text string, withLinks bool, cfg hashtag.Config) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out, err := linkify.HTML(text, withLinks, cfg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Policy returns a bluemonday policy that keeps the anchors produced with cfg
// and strips every other element. Text content is kept.
func Policy(cfg hashtag.Config) *bluemonday.Policy {
	classes := []string{
		regexp.QuoteMeta(cfg.HashtagCSSClass),
		regexp.QuoteMeta(cfg.MentionCSSClass),
	}
	classRe := regexp.MustCompile(`^(?:` + strings.Join(classes, "|") + `)$`)

	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").Matching(classRe).OnElements("a")
	p.AllowAttrs("data-"+hashtag.KindHashtag.String(), "data-"+hashtag.KindMention.String()).OnElements("a")
	return p
}

// Sanitize runs html through Policy(cfg). Use it on stored output of an
// earlier linkify pass before embedding it in a page.
func Sanitize(html string, cfg hashtag.Config) string {
	return Policy(cfg).Sanitize(html)
}
