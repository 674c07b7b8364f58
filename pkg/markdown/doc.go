// Package markdown is a goldmark extension that links hashtags and mentions.
//
//	md, err := markdown.New(cfg, goldmark.WithExtensions(extension.GFM))
//	if err != nil {
//	    return err // invalid pattern in cfg
//	}
//	var buf bytes.Buffer
//	err = md.Convert(src, &buf)
//
// Tokens are matched with the configured patterns while inline text is
// parsed, so code spans, fenced code and link text are left alone. Anchors
// use the same markup as pkg/linkify.
package markdown
