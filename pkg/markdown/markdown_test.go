package markdown_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/text"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/markdown"
)

const (
	goLink  = `<a href="/tags/go" class="hashtag-link" data-hashtag="go">#go</a>`
	annLink = `<a href="/users/ann" class="mention-link" data-mention="ann">@ann</a>`
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "paragraph",
			src:      "Learning #Go with @Ann",
			expected: "<p>Learning " + goLink + " with " + annLink + "</p>\n",
		},
		{
			name:     "start of paragraph",
			src:      "#Go rocks",
			expected: "<p>" + goLink + " rocks</p>\n",
		},
		{
			name:     "heading",
			src:      "# Notes on #go",
			expected: "<h1>Notes on " + goLink + "</h1>\n",
		},
		{
			name:     "emphasis",
			src:      "*#go*",
			expected: "<p><em>" + goLink + "</em></p>\n",
		},
		{
			name:     "code span untouched",
			src:      "Use `#go` here",
			expected: "<p>Use <code>#go</code> here</p>\n",
		},
		{
			name:     "fenced code untouched",
			src:      "```\n#go @ann\n```",
			expected: "<pre><code>#go @ann\n</code></pre>\n",
		},
		{
			name:     "link text untouched",
			src:      "[about #Go](https://go.dev)",
			expected: "<p><a href=\"https://go.dev\">about #Go</a></p>\n",
		},
		{
			name:     "email not linked",
			src:      "mail ann@example.com",
			expected: "<p>mail ann@example.com</p>\n",
		},
		{
			name:     "sigil inside word",
			src:      "C#go",
			expected: "<p>C#go</p>\n",
		},
		{
			name:     "bare sigil",
			src:      "# # and @ alone",
			expected: "<h1># and @ alone</h1>\n",
		},
	}

	cfg := hashtag.DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := markdown.Render([]byte(tt.src), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRender_LinksDisabled(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.EnableLinks = false

	out, err := markdown.Render([]byte("Learning #Go"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "<p>Learning #Go</p>\n", out)
}

func TestRender_InvalidPattern(t *testing.T) {
	t.Parallel()

	cfg := hashtag.DefaultConfig()
	cfg.MentionPattern = "@(["

	_, err := markdown.Render([]byte("hi"), cfg)
	require.ErrorIs(t, err, hashtag.ErrInvalidPattern)

	var perr *hashtag.PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "@([", perr.Pattern)
}

func TestTagNodes(t *testing.T) {
	t.Parallel()

	md, err := markdown.New(hashtag.DefaultConfig())
	require.NoError(t, err)

	src := []byte("Hello #Über and @Ann")
	doc := md.Parser().Parse(text.NewReader(src))

	var tags []*markdown.TagNode
	para := doc.FirstChild()
	for n := para.FirstChild(); n != nil; n = n.NextSibling() {
		if tag, ok := n.(*markdown.TagNode); ok {
			tags = append(tags, tag)
		}
	}

	require.Len(t, tags, 2)
	assert.Equal(t, hashtag.KindHashtag, tags[0].TagKind)
	assert.Equal(t, hashtag.Token("über"), tags[0].Token)
	assert.Equal(t, "#Über", string(tags[0].Raw))
	assert.Equal(t, hashtag.KindMention, tags[1].TagKind)
	assert.Equal(t, hashtag.Token("ann"), tags[1].Token)

	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("#go"), &buf))
	assert.Contains(t, buf.String(), `data-hashtag="go"`)
}
