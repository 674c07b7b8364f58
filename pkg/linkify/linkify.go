package linkify

import (
	"cmp"
	"errors"
	"html"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
)

// Linkifier wraps hashtag and mention occurrences in anchors. Safe for concurrent use.
type Linkifier struct {
	cfg hashtag.Config

	once     sync.Once
	patterns [2]*regexp2.Regexp
	err      error
}

// New returns a Linkifier for cfg.
func New(cfg hashtag.Config) *Linkifier {
	return &Linkifier{cfg: cfg}
}

// Linkify returns text with every hashtag and mention occurrence replaced by an anchor.
// Text outside the anchors is left untouched. When text is empty, withLinks is false
// or links are disabled in the config, text is returned as is and nothing is parsed.
func (l *Linkifier) Linkify(text string, withLinks bool) (string, error) {
	if text == "" || !withLinks || !l.cfg.EnableLinks {
		return text, nil
	}
	return l.render(text, false)
}

// HTML is like Linkify but escapes everything outside the inserted anchors,
// so the result can be embedded in a page as is.
func (l *Linkifier) HTML(text string, withLinks bool) (string, error) {
	if text == "" || !withLinks || !l.cfg.EnableLinks {
		return html.EscapeString(text), nil
	}
	return l.render(text, true)
}

// Linkify is a one-shot form of New(cfg).Linkify(text, withLinks).
func Linkify(text string, withLinks bool, cfg hashtag.Config) (string, error) {
	return New(cfg).Linkify(text, withLinks)
}

// HTML is a one-shot form of New(cfg).HTML(text, withLinks).
func HTML(text string, withLinks bool, cfg hashtag.Config) (string, error) {
	return New(cfg).HTML(text, withLinks)
}

// Anchor renders the link markup for a single token. Every interpolated value is escaped.
func Anchor(kind hashtag.Kind, tok hashtag.Token, cfg hashtag.Config) string {
	body := html.EscapeString(string(tok))

	var sb strings.Builder
	sb.WriteString(`<a href="`)
	sb.WriteString(html.EscapeString(cfg.URLPrefix(kind) + string(tok)))
	sb.WriteString(`" class="`)
	sb.WriteString(html.EscapeString(cfg.CSSClass(kind)))
	sb.WriteString(`" data-`)
	sb.WriteString(kind.String())
	sb.WriteString(`="`)
	sb.WriteString(body)
	sb.WriteString(`">`)
	sb.WriteString(kind.Sigil())
	sb.WriteString(body)
	sb.WriteString(`</a>`)
	return sb.String()
}

// render makes one left-to-right pass over the spans found by the configured
// patterns, so markup inserted for one token is never scanned again.
func (l *Linkifier) render(text string, escape bool) (string, error) {
	spans, err := l.spans(text)
	if err != nil {
		return "", err
	}

	write := func(sb *strings.Builder, s string) {
		if escape {
			sb.WriteString(html.EscapeString(s))
			return
		}
		sb.WriteString(s)
	}

	var sb strings.Builder
	sb.Grow(len(text))

	// Spans are in runes; gaps are copied from text by byte offset so
	// invalid UTF-8 outside the anchors survives unchanged.
	offsets := byteOffsets(text)
	pos := 0
	for _, s := range spans {
		write(&sb, text[pos:offsets[s.start]])
		sb.WriteString(Anchor(s.kind, s.tok, l.cfg))
		pos = offsets[s.end]
	}
	write(&sb, text[pos:])

	return sb.String(), nil
}

// span is a sigil plus token body, in rune offsets.
type span struct {
	start, end int
	kind       hashtag.Kind
	tok        hashtag.Token
}

// spans returns the linkable occurrences in text ordered by position.
// An occurrence is group 1 of a pattern match, directly preceded by the kind's
// sigil, with no word character before the sigil or after the body.
func (l *Linkifier) spans(text string) ([]span, error) {
	patterns, err := l.compile()
	if err != nil {
		return nil, err
	}

	runes := []rune(text)
	var out []span
	for i, kind := range kinds {
		sigil, _ := utf8.DecodeRuneInString(kind.Sigil())

		m, err := patterns[i].FindRunesMatch(runes)
		for ; m != nil && err == nil; m, err = patterns[i].FindNextMatch(m) {
			body := m.GroupByNumber(1)
			if body == nil || body.Length == 0 {
				continue
			}
			start, end := body.Index-1, body.Index+body.Length
			if start < 0 || runes[start] != sigil {
				continue
			}
			if start > 0 && isWord(runes[start-1]) {
				continue
			}
			if end < len(runes) && isWord(runes[end]) {
				continue
			}
			out = append(out, span{start: start, end: end, kind: kind, tok: hashtag.Normalize(body.String())})
		}
		if err != nil {
			return nil, errors.Join(hashtag.ErrMatchTimeout, err)
		}
	}

	slices.SortFunc(out, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(b.end, a.end))
	})

	// Custom patterns may overlap; the earliest, then longest, span wins.
	kept := out[:0]
	last := 0
	for _, s := range out {
		if s.start < last {
			continue
		}
		kept = append(kept, s)
		last = s.end
	}
	return kept, nil
}

var kinds = [2]hashtag.Kind{hashtag.KindHashtag, hashtag.KindMention}

func (l *Linkifier) compile() ([2]*regexp2.Regexp, error) {
	l.once.Do(func() {
		for i, kind := range kinds {
			re, err := hashtag.Compile(kind, l.cfg.Pattern(kind), l.cfg.MatchTimeout)
			if err != nil {
				l.err = err
				return
			}
			l.patterns[i] = re
		}
	})
	return l.patterns, l.err
}

// byteOffsets maps each rune index of text to its byte offset, with one extra
// entry for len(text). An invalid byte counts as one rune, as in []rune(text).
func byteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

// isWord matches the runes of \w: letters, nonspacing marks, decimal digits
// and connector punctuation.
func isWord(r rune) bool {
	return unicode.In(r, unicode.L, unicode.Mn, unicode.Nd, unicode.Pc)
}
