package providers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/pkg/httpclient"
)

const (
	bloombergProviderID = "bloomberg"
	bloombergOrigin     = "https://www.bloomberg.com"
	bloombergFeedURL    = "https://feeds.bloomberg.com/markets/news.rss"
)

// bloombergScraper reads the Bloomberg markets RSS feed. The HTML site blocks
// scrapers, the feed does not.
type bloombergScraper struct {
	client  HTTPClient
	opts    options
	headers map[string]string
}

// NewBloombergScraper builds a feed-based scraper for Bloomberg markets news.
func NewBloombergScraper(client HTTPClient, opts ...Option) Scraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	o := buildOptions(bloombergFeedURL, bloombergOrigin, opts)
	headers := httpclient.BrowserHeaders(o.userAgent)
	headers["Accept"] = "application/rss+xml,application/xml;q=0.9,*/*;q=0.8"
	return &bloombergScraper{client: client, opts: o, headers: headers}
}

func (s *bloombergScraper) ID() string   { return bloombergProviderID }
func (s *bloombergScraper) Name() string { return "Bloomberg" }

// Scrape fetches the feed and converts its items in feed order.
func (s *bloombergScraper) Scrape(ctx context.Context) ([]domain.ScrapedArticle, error) {
	body, err := fetchBody(ctx, s.client, s.opts.endpoint, bloombergProviderID, s.headers)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", bloombergProviderID, err)
	}

	now := s.opts.now()
	articles := make([]domain.ScrapedArticle, 0, s.opts.maxArticles)
	for _, item := range feed.Items {
		if len(articles) >= s.opts.maxArticles {
			break
		}
		if art, ok := s.convert(item, now); ok {
			articles = append(articles, art)
		}
	}
	return articles, nil
}

func (s *bloombergScraper) convert(item *gofeed.Item, now time.Time) (domain.ScrapedArticle, bool) {
	if item == nil {
		return domain.ScrapedArticle{}, false
	}

	title := CleanText(item.Title)
	link := resolveURL(item.Link, s.opts.origin)
	if title == "" || link == "" {
		return domain.ScrapedArticle{}, false
	}

	description := CleanText(firstNonEmpty(item.Description, item.Content))
	summary := CleanText(StripTags(description))
	if summary == "" {
		summary = truncateRunes(title, titleSummaryFallbackLen)
	}

	published := item.Published
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	}

	return domain.ScrapedArticle{
		Title:         title,
		Summary:       summary,
		Content:       firstNonEmpty(description, summary),
		Author:        feedAuthor(item),
		PublishedDate: domain.FormatPublishedDate(published, now),
		SourceURL:     link,
		ImageURL:      resolveURL(feedImage(item), s.opts.origin),
		Category:      "economy",
		SourceID:      bloombergProviderID,
	}, true
}

func feedAuthor(item *gofeed.Item) string {
	if item.Author != nil {
		return CleanText(item.Author.Name)
	}
	return ""
}

func feedImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
