package fetch

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// invisibleSelector matches elements whose content is never rendered as text.
const invisibleSelector = "script, style, noscript, template"

var reWhitespace = regexp.MustCompile(`\s+`)

// Document is a fetched, parsed page.
type Document struct {
	// URL is the final request URL.
	URL *url.URL

	// StatusCode and ContentType come from the response.
	StatusCode  int
	ContentType string

	// Raw is the (size-limited) response body.
	Raw []byte

	dom *goquery.Document
}

// Parse builds a Document from a response body.
func Parse(u *url.URL, body []byte) (*Document, error) {
	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{URL: u, Raw: body, dom: dom}, nil
}

// Title returns the page title, or "".
func (d *Document) Title() string {
	return strings.TrimSpace(d.dom.Find("title").First().Text())
}

// Text returns all human-visible text of the page as one flat string.
// Script, style and similar content is skipped and whitespace runs are
// collapsed to single spaces.
func (d *Document) Text() string {
	body := d.dom.Find("body")
	if body.Length() == 0 {
		body = d.dom.Selection
	}
	visible := body.Clone()
	visible.Find(invisibleSelector).Remove()
	return normalizeSpace(visible.Text())
}

// ReadableText returns the main article text as extracted by readability.
// It falls back to Text when extraction fails or yields nothing.
func (d *Document) ReadableText() string {
	article, err := readability.FromReader(bytes.NewReader(d.Raw), d.URL)
	if err != nil {
		return d.Text()
	}

	text := normalizeSpace(article.TextContent)
	if text == "" {
		return d.Text()
	}
	return text
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
