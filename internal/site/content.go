package site

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ContentFormat declares how node content is interpreted.
type ContentFormat string

const (
	// FormatText is plain text, escaped on output.
	FormatText ContentFormat = "text"
	// FormatHTML is trusted markup inserted verbatim.
	FormatHTML ContentFormat = "html"
	// FormatMarkdown is rendered with goldmark. Raw HTML inside it is dropped.
	FormatMarkdown ContentFormat = "markdown"
)

// contentRenderer converts node content into template values.
type contentRenderer struct {
	format ContentFormat
	md     goldmark.Markdown
}

func newContentRenderer(format ContentFormat) *contentRenderer {
	if format == "" {
		format = FormatText
	}
	c := &contentRenderer{format: format}
	if format == FormatMarkdown {
		c.md = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		)
	}
	return c
}

// render returns a string for text content, which the templates escape, or
// template.HTML for markup.
func (c *contentRenderer) render(content string) (any, error) {
	if content == "" {
		return "", nil
	}
	switch c.format {
	case FormatHTML:
		return template.HTML(content), nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			return nil, fmt.Errorf("converting markdown: %w", err)
		}
		return template.HTML(buf.String()), nil
	default:
		return content, nil
	}
}
