package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/pkg/httpclient"
)

const titleSummaryFallbackLen = 150

// listingConfig describes how to scrape one HTML listing page. Item
// selectors are alternatives tried in order; field selectors are candidates
// whose first non-empty match wins.
type listingConfig struct {
	id               string
	name             string
	listingURL       string
	origin           string
	category         string
	itemSelectors    []string
	titleSelectors   []string
	summarySelectors []string
	dateSelectors    []string
	imageSelectors   []string
}

// listingScraper is the shared extraction routine behind every HTML source.
type listingScraper struct {
	cfg     listingConfig
	client  HTTPClient
	opts    options
	headers map[string]string
}

func newListingScraper(cfg listingConfig, client HTTPClient, opts []Option) *listingScraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	o := buildOptions(cfg.listingURL, cfg.origin, opts)
	if len(cfg.imageSelectors) == 0 {
		cfg.imageSelectors = []string{"img"}
	}
	return &listingScraper{
		cfg:     cfg,
		client:  client,
		opts:    o,
		headers: httpclient.BrowserHeaders(o.userAgent),
	}
}

func (s *listingScraper) ID() string   { return s.cfg.id }
func (s *listingScraper) Name() string { return s.cfg.name }

// Scrape fetches the listing page and returns up to the configured cap of
// articles in document order.
func (s *listingScraper) Scrape(ctx context.Context) ([]domain.ScrapedArticle, error) {
	if strings.TrimSpace(s.opts.endpoint) == "" {
		return nil, fmt.Errorf("%s listing url is empty", s.cfg.id)
	}

	doc, err := fetchDocument(ctx, s.client, s.opts.endpoint, s.cfg.id, s.headers)
	if err != nil {
		return nil, err
	}
	return s.extract(doc), nil
}

func (s *listingScraper) extract(doc *goquery.Document) []domain.ScrapedArticle {
	now := s.opts.now()
	articles := make([]domain.ScrapedArticle, 0, s.opts.maxArticles)

	selectFirstMatch(doc.Selection, s.cfg.itemSelectors).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if art, ok := s.extractItem(el, now); ok {
			articles = append(articles, art)
		}
		return len(articles) < s.opts.maxArticles
	})

	return articles
}

// extractItem builds an article from one listing element. Items without a
// title or a resolvable link are skipped.
func (s *listingScraper) extractItem(el *goquery.Selection, now time.Time) (domain.ScrapedArticle, bool) {
	title := firstText(el, s.cfg.titleSelectors)
	if title == "" && el.Is(strings.Join(s.cfg.titleSelectors, ", ")) {
		title = CleanText(el.Text())
	}
	if title == "" {
		return domain.ScrapedArticle{}, false
	}

	link := resolveURL(itemLink(el), s.opts.origin)
	if link == "" {
		return domain.ScrapedArticle{}, false
	}

	summary := firstText(el, s.cfg.summarySelectors)
	if summary == "" {
		summary = truncateRunes(title, titleSummaryFallbackLen)
	}

	var rawDate string
	if len(s.cfg.dateSelectors) > 0 {
		rawDate = firstNonEmpty(
			firstAttr(el, s.cfg.dateSelectors, "datetime"),
			firstText(el, s.cfg.dateSelectors),
		)
	}

	image := firstAttr(el, s.cfg.imageSelectors, "src", "data-src")

	return domain.ScrapedArticle{
		Title:         title,
		Summary:       summary,
		Content:       summary,
		PublishedDate: domain.FormatPublishedDate(rawDate, now),
		SourceURL:     link,
		ImageURL:      resolveURL(image, s.opts.origin),
		Category:      s.cfg.category,
		SourceID:      s.cfg.id,
	}, true
}

// itemLink returns the href of the item itself when it is an anchor, then
// the first anchor inside it, then the nearest enclosing anchor.
func itemLink(el *goquery.Selection) string {
	if goquery.NodeName(el) == "a" {
		if href, ok := el.Attr("href"); ok && strings.TrimSpace(href) != "" {
			return href
		}
	}
	if href, ok := el.Find("a[href]").First().Attr("href"); ok {
		return href
	}
	href, _ := el.Closest("a[href]").Attr("href")
	return href
}
