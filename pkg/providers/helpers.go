package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
)

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchBody retrieves url and returns the body of a 2xx response.
func fetchBody(ctx context.Context, client HTTPClient, url, sourceID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, &FetchError{Source: sourceID, URL: url, Err: err}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &FetchError{
			Source:     sourceID,
			URL:        url,
			StatusCode: code,
			Err:        fmt.Errorf("unexpected status, body: %s", responseSnippet(body)),
		}
	}
	return body, nil
}

// fetchDocument retrieves url and loads it into a goquery document.
func fetchDocument(ctx context.Context, client HTTPClient, url, sourceID string, headers map[string]string) (*goquery.Document, error) {
	body, err := fetchBody(ctx, client, url, sourceID, headers)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s html: %w", sourceID, err)
	}
	return doc, nil
}

// CleanText trims s and collapses runs of whitespace into single spaces.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripTags removes markup tags from s.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolveURL resolves a possibly relative URL against base. Only http(s)
// results are returned; anything else resolves to "".
func resolveURL(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if !parsed.IsAbs() {
		baseURL, err := url.Parse(base)
		if err != nil || !baseURL.IsAbs() {
			return ""
		}
		parsed = baseURL.ResolveReference(parsed)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

// selectFirstMatch runs each selector in order against root and returns the
// first non-empty selection.
func selectFirstMatch(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := root.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return root.Slice(0, 0)
}

// firstText returns the cleaned text of the first selector yielding non-empty text.
func firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		var text string
		root.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = CleanText(s.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the first non-empty value of any of attrs on the first
// element matched by any of selectors.
func firstAttr(root *goquery.Selection, selectors []string, attrs ...string) string {
	for _, sel := range selectors {
		node := root.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		for _, attr := range attrs {
			if val, ok := node.Attr(attr); ok && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}

// metaContent returns the content attribute of the first matching meta tag.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}
