package hashtag_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		hashtags []string
		mentions []string
	}{
		{
			name:     "empty text",
			text:     "",
			hashtags: []string{},
			mentions: []string{},
		},
		{
			name:     "hashtags only",
			text:     "This is a post about #Laravel and #PHP development",
			hashtags: []string{"laravel", "php"},
			mentions: []string{},
		},
		{
			name:     "mentions only",
			text:     "Hello @zeynallow and @john_doe, how are you?",
			hashtags: []string{},
			mentions: []string{"zeynallow", "john_doe"},
		},
		{
			name:     "hashtags and mentions",
			text:     "Check out this #Laravel tutorial by @zeynallow #PHP",
			hashtags: []string{"laravel", "php"},
			mentions: []string{"zeynallow"},
		},
		{
			name:     "case variants collapse to first occurrence",
			text:     "I love #Laravel and #laravel and #LARAVEL",
			hashtags: []string{"laravel"},
			mentions: []string{},
		},
		{
			name:     "first occurrence order",
			text:     "#zeta #alpha #Zeta #beta #ALPHA",
			hashtags: []string{"zeta", "alpha", "beta"},
			mentions: []string{},
		},
		{
			name:     "hyphens underscores and digits",
			text:     "#my-tag #snake_case #v2 #go1-22",
			hashtags: []string{"my-tag", "snake_case", "v2", "go1-22"},
			mentions: []string{},
		},
		{
			name:     "must start with a letter",
			text:     "issue #123 and #_private",
			hashtags: []string{},
			mentions: []string{},
		},
		{
			name:     "unicode letters",
			text:     "#Über #café #Москва @Jürgen",
			hashtags: []string{"über", "café", "москва"},
			mentions: []string{"jürgen"},
		},
		{
			name:     "punctuation ends a token",
			text:     "Sentence ends with #tag. Another #tag2, and #tag3!",
			hashtags: []string{"tag", "tag2", "tag3"},
			mentions: []string{},
		},
		{
			name:     "no tokens",
			text:     "Just plain text without any tags",
			hashtags: []string{},
			mentions: []string{},
		},
	}

	cfg := hashtag.DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := hashtag.Parse(tt.text, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.hashtags, hashtag.Strings(res.Hashtags))
			assert.Equal(t, tt.mentions, hashtag.Strings(res.Mentions))
		})
	}
}

func TestParse_EmptyTextNeverFails(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.HashtagPattern = "#(unbalanced"
	cfg.MentionPattern = "@(also["

	res, err := hashtag.Parse("", cfg)
	require.NoError(t, err)
	assert.NotNil(t, res.Hashtags)
	assert.NotNil(t, res.Mentions)
	assert.True(t, res.Empty())
}

func TestParse_InvalidPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hashtag string
		mention string
		kind    hashtag.Kind
		cause   error
	}{
		{
			name:    "unbalanced hashtag pattern",
			hashtag: "#(\\p{L}+",
			mention: hashtag.DefaultMentionPattern,
			kind:    hashtag.KindHashtag,
		},
		{
			name:    "unbalanced mention pattern",
			hashtag: hashtag.DefaultHashtagPattern,
			mention: "@([a-z+",
			kind:    hashtag.KindMention,
		},
		{
			name:    "hashtag pattern wins when both are broken",
			hashtag: "#(",
			mention: "@(",
			kind:    hashtag.KindHashtag,
		},
		{
			name:    "pattern without capturing group",
			hashtag: `#\p{L}+`,
			mention: hashtag.DefaultMentionPattern,
			kind:    hashtag.KindHashtag,
			cause:   hashtag.ErrNoCaptureGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := hashtag.DefaultConfig()
			cfg.HashtagPattern = tt.hashtag
			cfg.MentionPattern = tt.mention

			_, err := hashtag.Parse("non-empty #text", cfg)
			require.ErrorIs(t, err, hashtag.ErrInvalidPattern)

			var perr *hashtag.PatternError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.NotNil(t, perr.Err)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			assert.Contains(t, err.Error(), tt.kind.String())

			require.ErrorIs(t, cfg.Validate(), hashtag.ErrInvalidPattern)
		})
	}
}

func TestParse_CustomPatterns(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.HashtagPattern = `\$([A-Za-z]+)`
	cfg.MentionPattern = `\+(\d+)`

	res, err := hashtag.Parse("Buy $AAPL and $aapl, ping +42", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"aapl"}, hashtag.Strings(res.Hashtags))
	assert.Equal(t, []string{"42"}, hashtag.Strings(res.Mentions))
}

func TestParse_SkipsEmptyCaptures(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.HashtagPattern = `#(\p{L}*)`

	res, err := hashtag.Parse("# #go", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, hashtag.Strings(res.Hashtags))
}

func TestParse_MatchTimeout(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.HashtagPattern = `#((a+)+)b`
	cfg.MatchTimeout = 20 * time.Millisecond

	_, err := hashtag.Parse("#"+strings.Repeat("a", 40)+"!", cfg)
	require.ErrorIs(t, err, hashtag.ErrMatchTimeout)
}

func TestDerivedOperations(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	text := "This is about #Laravel and @zeynallow"

	tags, err := hashtag.ExtractHashtags(text, cfg)
	require.NoError(t, err)
	assert.Equal(t, []hashtag.Token{"laravel"}, tags)

	mentions, err := hashtag.ExtractMentions(text, cfg)
	require.NoError(t, err)
	assert.Equal(t, []hashtag.Token{"zeynallow"}, mentions)

	for _, text := range []string{"", "Text with #hashtag", "Text without hashtags", "@only", "#a @b"} {
		tags, err := hashtag.ExtractHashtags(text, cfg)
		require.NoError(t, err)
		has, err := hashtag.HasHashtags(text, cfg)
		require.NoError(t, err)
		assert.Equal(t, len(tags) > 0, has, text)

		mentions, err := hashtag.ExtractMentions(text, cfg)
		require.NoError(t, err)
		has, err = hashtag.HasMentions(text, cfg)
		require.NoError(t, err)
		assert.Equal(t, len(mentions) > 0, has, text)
	}
}

func TestExtractor_ConcurrentUse(t *testing.T) {
	t.Parallel()

	ex := hashtag.New(hashtag.DefaultConfig())

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ex.Parse("#Go #go @gopher")
			assert.NoError(t, err)
			assert.Equal(t, []hashtag.Token{"go"}, res.Hashtags)
			assert.Equal(t, []hashtag.Token{"gopher"}, res.Mentions)
		}()
	}
	wg.Wait()
}

func TestExtractor_BrokenConfigKeepsFailing(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.MentionPattern = "@("
	ex := hashtag.New(cfg)

	_, err := ex.Parse("first #call")
	require.ErrorIs(t, err, hashtag.ErrInvalidPattern)

	_, err = ex.Parse("second #call")
	require.ErrorIs(t, err, hashtag.ErrInvalidPattern)

	res, err := ex.Parse("")
	require.NoError(t, err)
	assert.True(t, res.Empty())
}
