package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/newsdesk/internal/logger"
	"github.com/samvad-hq/newsdesk/pkg/httpclient"
	"github.com/samvad-hq/newsdesk/pkg/providers"
)

const (
	maxHTMLBodyBytes   = 2 << 20 // 2 MiB
	minParagraphLength = 50
)

// ErrInvalidURL is returned for empty or non-http(s) URLs.
var ErrInvalidURL = errors.New("invalid article url")

var (
	containerSelectors = []string{"article", ".article-body", ".article-content", "main"}
	unwantedSelector   = "script, style, iframe, .ad, .advertisement"
)

// Result is the best-effort body of a single web page.
type Result struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// Extractor pulls the main body out of arbitrary article pages.
type Extractor struct {
	client    httpclient.Client
	log       logger.Logger
	userAgent string
}

// NewExtractor builds an Extractor. A nil client uses the default scraper client.
func NewExtractor(client httpclient.Client, userAgent string, log logger.Logger) *Extractor {
	if client == nil {
		client = providers.DefaultHTTPClient()
	}
	return &Extractor{client: client, log: logger.Ensure(log), userAgent: userAgent}
}

// Extract fetches rawURL and extracts its author and main content.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{}, fmt.Errorf("%q: %w", rawURL, ErrInvalidURL)
	}

	resp, err := e.client.Get(ctx, rawURL, httpclient.BrowserHeaders(e.userAgent))
	if err != nil {
		return Result{}, fmt.Errorf("http fetch: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return Result{}, fmt.Errorf("fetch %s: status %d", rawURL, code)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		e.log.InfoObj("html body truncated", "truncation", map[string]any{
			"url":      rawURL,
			"original": len(body),
			"kept":     maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	return Parse(body)
}

// Parse extracts the article from an HTML document.
func Parse(body []byte) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	res := Result{
		Title: providers.CleanText(firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		)),
		Author: metaContent(doc, `meta[name="author"]`, `meta[property="article:author"]`),
	}

	if container := findContainer(doc); container != nil {
		container.Find(unwantedSelector).Remove()
		html, err := container.Html()
		if err != nil {
			return Result{}, fmt.Errorf("render article html: %w", err)
		}
		res.HTML = strings.TrimSpace(html)
		res.Content = providers.CleanText(container.Text())
		return res, nil
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); len(text) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})
	res.Content = strings.Join(paragraphs, "\n\n")
	res.HTML = res.Content
	return res, nil
}

func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range containerSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			return node
		}
	}
	return nil
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if val, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
