package markdown

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/linkify"
)

// KindTag is the node kind of TagNode.
var KindTag = ast.NewNodeKind("Tag")

// TagNode is a hashtag or mention found in inline text.
type TagNode struct {
	ast.BaseInline
	TagKind hashtag.Kind
	Token   hashtag.Token
	// Raw is the text as written, used where a link cannot be emitted.
	Raw []byte
}

func (n *TagNode) Kind() ast.NodeKind {
	return KindTag
}

func (n *TagNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"TagKind": n.TagKind.String(),
		"Token":   n.Token.String(),
	}, nil)
}

// tagParser turns a sigil followed by a pattern match into a TagNode.
type tagParser struct {
	patterns map[byte]*tagPattern
}

type tagPattern struct {
	kind hashtag.Kind
	re   *regexp2.Regexp
}

func newTagParser(cfg hashtag.Config) (*tagParser, error) {
	p := &tagParser{patterns: make(map[byte]*tagPattern, 2)}
	for _, kind := range []hashtag.Kind{hashtag.KindHashtag, hashtag.KindMention} {
		if _, err := hashtag.Compile(kind, cfg.Pattern(kind), cfg.MatchTimeout); err != nil {
			return nil, err
		}
		// Anchored so a match can only start at the trigger.
		re, err := hashtag.Compile(kind, `^(?:`+cfg.Pattern(kind)+`)`, cfg.MatchTimeout)
		if err != nil {
			return nil, err
		}
		p.patterns[kind.Sigil()[0]] = &tagPattern{kind: kind, re: re}
	}
	return p, nil
}

func (p *tagParser) Trigger() []byte {
	return []byte{hashtag.KindHashtag.Sigil()[0], hashtag.KindMention.Sigil()[0]}
}

func (p *tagParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	if isWordRune(block.PrecendingCharacter()) {
		return nil
	}

	line, _ := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	tp, ok := p.patterns[line[0]]
	if !ok {
		return nil
	}

	m, err := tp.re.FindStringMatch(string(line))
	if err != nil || m == nil {
		return nil
	}
	body := m.GroupByNumber(1)
	if body == nil || body.Length == 0 {
		return nil
	}

	matched := []byte(m.String())
	if next, _ := utf8.DecodeRune(line[len(matched):]); isWordRune(next) {
		return nil
	}

	block.Advance(len(matched))
	return &TagNode{
		TagKind: tp.kind,
		Token:   hashtag.Normalize(body.String()),
		Raw:     matched,
	}
}

// tagRenderer writes TagNodes as linkify anchors.
type tagRenderer struct {
	cfg hashtag.Config
}

func (r *tagRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTag, r.renderTag)
}

func (r *tagRenderer) renderTag(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*TagNode)
	if !r.cfg.EnableLinks || insideLink(n) {
		_, _ = w.Write(util.EscapeHTML(n.Raw))
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(linkify.Anchor(n.TagKind, n.Token, r.cfg))
	return ast.WalkContinue, nil
}

func insideLink(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindLink || p.Kind() == ast.KindAutoLink {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Extension links hashtags and mentions in goldmark documents.
type Extension struct {
	parser   *tagParser
	renderer *tagRenderer
}

// NewExtension compiles the patterns of cfg into a goldmark extension.
// Code spans, code blocks and existing links keep their text.
func NewExtension(cfg hashtag.Config) (*Extension, error) {
	p, err := newTagParser(cfg)
	if err != nil {
		return nil, err
	}
	return &Extension{parser: p, renderer: &tagRenderer{cfg: cfg}}, nil
}

func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(e.parser, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(e.renderer, 500),
	))
}

// New returns a goldmark converter with the hashtag extension and any extra options.
func New(cfg hashtag.Config, opts ...goldmark.Option) (goldmark.Markdown, error) {
	ext, err := NewExtension(cfg)
	if err != nil {
		return nil, err
	}
	return goldmark.New(append([]goldmark.Option{goldmark.WithExtensions(ext)}, opts...)...), nil
}

// Render converts markdown source to HTML with hashtags and mentions linked.
func Render(src []byte, cfg hashtag.Config) (string, error) {
	md, err := New(cfg)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
