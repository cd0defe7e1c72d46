// Package goquery renders photo descriptions as plain text.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/fpx"
	"golang.org/x/net/html"
)

var _ fpx.Converter = (*TextConverter)(nil)

// blockSelector matches elements that end a paragraph.
const blockSelector = "p, div, li, blockquote, pre, h1, h2, h3, h4, h5, h6, tr"

// TextConverter converts description HTML to plain text. Block elements
// become paragraphs separated by a blank line and <br> becomes a line break.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert returns the text content of htmlContent.
func (c *TextConverter) Convert(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fpx.Errorf(fpx.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, sel *goquery.Selection) {
		sel.ReplaceWithNodes(textNode("\n"))
	})
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendNodes(textNode("\n\n"))
	})

	return normalize(doc.Text()), nil
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// normalize collapses whitespace within lines and runs of blank lines.
func normalize(text string) string {
	var paragraphs []string
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
			lines = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}
