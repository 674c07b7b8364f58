package hashtag

import (
	"errors"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// Extractor finds hashtags and mentions using one Config.
// Patterns are compiled on first use of non-empty text, so an Extractor built
// from a broken Config still parses empty input. Safe for concurrent use.
type Extractor struct {
	cfg Config

	once    sync.Once
	hashtag *regexp2.Regexp
	mention *regexp2.Regexp
	err     error
}

// New returns an Extractor for cfg.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Config returns the configuration the extractor was built with.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Parse returns the distinct hashtags and mentions in text.
func (e *Extractor) Parse(text string) (Result, error) {
	if text == "" {
		return emptyResult(), nil
	}

	hashtagRe, mentionRe, err := e.patterns()
	if err != nil {
		return emptyResult(), err
	}

	hashtags, err := collect(hashtagRe, text)
	if err != nil {
		return emptyResult(), err
	}
	mentions, err := collect(mentionRe, text)
	if err != nil {
		return emptyResult(), err
	}

	return Result{Hashtags: hashtags, Mentions: mentions}, nil
}

// ExtractHashtags returns only the hashtags found in text.
func (e *Extractor) ExtractHashtags(text string) ([]Token, error) {
	res, err := e.Parse(text)
	return res.Hashtags, err
}

// ExtractMentions returns only the mentions found in text.
func (e *Extractor) ExtractMentions(text string) ([]Token, error) {
	res, err := e.Parse(text)
	return res.Mentions, err
}

// HasHashtags reports whether text contains at least one hashtag.
func (e *Extractor) HasHashtags(text string) (bool, error) {
	tags, err := e.ExtractHashtags(text)
	return len(tags) > 0, err
}

// HasMentions reports whether text contains at least one mention.
func (e *Extractor) HasMentions(text string) (bool, error) {
	mentions, err := e.ExtractMentions(text)
	return len(mentions) > 0, err
}

func (e *Extractor) patterns() (*regexp2.Regexp, *regexp2.Regexp, error) {
	e.once.Do(func() {
		e.hashtag, e.mention, e.err = e.cfg.compile()
	})
	return e.hashtag, e.mention, e.err
}

// Parse is a one-shot form of New(cfg).Parse(text).
func Parse(text string, cfg Config) (Result, error) {
	return New(cfg).Parse(text)
}

// ExtractHashtags is a one-shot form of New(cfg).ExtractHashtags(text).
func ExtractHashtags(text string, cfg Config) ([]Token, error) {
	return New(cfg).ExtractHashtags(text)
}

// ExtractMentions is a one-shot form of New(cfg).ExtractMentions(text).
func ExtractMentions(text string, cfg Config) ([]Token, error) {
	return New(cfg).ExtractMentions(text)
}

// HasHashtags is a one-shot form of New(cfg).HasHashtags(text).
func HasHashtags(text string, cfg Config) (bool, error) {
	return New(cfg).HasHashtags(text)
}

// HasMentions is a one-shot form of New(cfg).HasMentions(text).
func HasMentions(text string, cfg Config) (bool, error) {
	return New(cfg).HasMentions(text)
}

func (c Config) compile() (*regexp2.Regexp, *regexp2.Regexp, error) {
	hashtagRe, err := Compile(KindHashtag, c.HashtagPattern, c.MatchTimeout)
	if err != nil {
		return nil, nil, err
	}
	mentionRe, err := Compile(KindMention, c.MentionPattern, c.MatchTimeout)
	if err != nil {
		return nil, nil, err
	}
	return hashtagRe, mentionRe, nil
}

// Compile compiles a token pattern and checks it has a capturing group.
// Failures are reported as *PatternError.
func Compile(kind Kind, pattern string, timeout time.Duration) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, &PatternError{Kind: kind, Pattern: pattern, Err: err}
	}
	// GetGroupNumbers always includes the implicit group 0.
	if len(re.GetGroupNumbers()) < 2 {
		return nil, &PatternError{Kind: kind, Pattern: pattern, Err: ErrNoCaptureGroup}
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return re, nil
}

// collect gathers group 1 of every match, normalized and deduplicated in
// first-occurrence order. Empty captures are skipped.
func collect(re *regexp2.Regexp, text string) ([]Token, error) {
	tokens := []Token{}
	seen := make(map[Token]struct{})

	m, err := re.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
		body := m.GroupByNumber(1)
		if body == nil || body.Length == 0 {
			continue
		}
		tok := Normalize(body.String())
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	if err != nil {
		return nil, errors.Join(ErrMatchTimeout, err)
	}

	return tokens, nil
}
