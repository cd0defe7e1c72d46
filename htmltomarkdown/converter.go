// Package htmltomarkdown renders photo descriptions, which the API returns
// as HTML fragments, as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/fwojciec/fpx"
)

// Ensure Converter implements fpx.Converter at compile time.
var _ fpx.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms a description into Markdown. Blank input converts to
// "" and text without markup is returned trimmed, keeping its line breaks.
func (c *Converter) Convert(html string) (string, error) {
	html = strings.TrimSpace(html)
	if html == "" {
		return "", nil
	}
	if !strings.ContainsRune(html, '<') {
		return html, nil
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fpx.WrapError(fpx.EINVALID, err, "convert description")
	}

	return strings.TrimSpace(result), nil
}
