package hashtag

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind distinguishes hashtags from mentions.
type Kind uint8

const (
	KindHashtag Kind = iota
	KindMention
)

// Sigil returns the character that introduces a token of this kind.
func (k Kind) Sigil() string {
	if k == KindMention {
		return "@"
	}
	return "#"
}

func (k Kind) String() string {
	if k == KindMention {
		return "mention"
	}
	return "hashtag"
}

// Token is a normalized (lowercased) hashtag or mention body, without the sigil.
type Token string

func (t Token) String() string {
	return string(t)
}

// Normalize lowercases s using language-neutral Unicode case mapping.
// A new Caser is built per call because cases.Caser is not safe for concurrent use.
func Normalize(s string) Token {
	return Token(cases.Lower(language.Und).String(s))
}

// Result holds the distinct tokens found in a text, in first-occurrence order.
type Result struct {
	Hashtags []Token `json:"hashtags"`
	Mentions []Token `json:"mentions"`
}

// Empty reports whether neither hashtags nor mentions were found.
func (r Result) Empty() bool {
	return len(r.Hashtags) == 0 && len(r.Mentions) == 0
}

// Tokens returns the sequence for the given kind.
func (r Result) Tokens(k Kind) []Token {
	if k == KindMention {
		return r.Mentions
	}
	return r.Hashtags
}

// Strings converts tokens to plain strings.
func Strings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = string(t)
	}
	return out
}

func emptyResult() Result {
	return Result{
		Hashtags: []Token{},
		Mentions: []Token{},
	}
}
