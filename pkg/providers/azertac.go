package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/newsdesk/internal/domain"
)

const (
	azertacProviderID = "azertac"
	azertacOrigin     = "https://azertac.az"

	articleSummaryLen = 200
)

// ErrForeignArticle is returned when a single-article URL does not belong to the source.
var ErrForeignArticle = errors.New("article url does not belong to source")

// azertacScraper scrapes the Azertac English listing and single articles.
type azertacScraper struct {
	*listingScraper
}

// NewAzertacScraper builds a scraper for the Azertac state news agency.
func NewAzertacScraper(client HTTPClient, opts ...Option) Scraper {
	return &azertacScraper{listingScraper: newListingScraper(listingConfig{
		id:               azertacProviderID,
		name:             "Azertac",
		listingURL:       azertacOrigin + "/en",
		origin:           azertacOrigin,
		category:         "general",
		itemSelectors:    []string{".news-item", ".article-item"},
		titleSelectors:   []string{"h2", "h3", ".title"},
		summarySelectors: []string{"p", ".summary"},
		dateSelectors:    []string{".date", "time"},
	}, client, opts)}
}

// ScrapeArticle fetches one Azertac article and extracts its body, byline
// and lead image.
func (s *azertacScraper) ScrapeArticle(ctx context.Context, rawURL string) (domain.ScrapedArticle, error) {
	if err := s.checkOwnURL(rawURL); err != nil {
		return domain.ScrapedArticle{}, err
	}

	doc, err := fetchDocument(ctx, s.client, rawURL, s.cfg.id, s.headers)
	if err != nil {
		return domain.ScrapedArticle{}, err
	}

	art := s.extractArticle(doc, rawURL)
	if art.Title == "" {
		return domain.ScrapedArticle{}, fmt.Errorf("%s article %s has no title", s.cfg.id, rawURL)
	}
	return art, nil
}

func (s *azertacScraper) extractArticle(doc *goquery.Document, rawURL string) domain.ScrapedArticle {
	root := doc.Selection

	title := firstNonEmpty(
		firstText(root, []string{"h1", ".article-title"}),
		metaContent(doc, `meta[property="og:title"]`),
	)

	var parts []string
	root.Find(".article-body, .content").Each(func(_ int, sel *goquery.Selection) {
		if text := CleanText(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	content := CleanText(strings.Join(parts, " "))

	image := firstNonEmpty(
		firstAttr(root, []string{"article img", ".article-image img"}, "src", "data-src"),
		metaContent(doc, `meta[property="og:image"]`),
	)

	return domain.ScrapedArticle{
		Title:         title,
		Summary:       truncateRunes(content, articleSummaryLen),
		Content:       content,
		Author:        firstText(root, []string{".author", ".byline"}),
		PublishedDate: domain.FormatPublishedDate(firstAttr(root, []string{".date", "time"}, "datetime"), s.opts.now()),
		SourceURL:     rawURL,
		ImageURL:      resolveURL(image, s.opts.origin),
		Category:      s.cfg.category,
		SourceID:      s.cfg.id,
	}
}

// checkOwnURL rejects URLs whose host differs from the source origin.
func (s *azertacScraper) checkOwnURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid article url %q", rawURL)
	}
	origin, err := url.Parse(s.opts.origin)
	if err != nil {
		return fmt.Errorf("invalid %s origin: %w", s.cfg.id, err)
	}
	if trimWWW(u.Hostname()) != trimWWW(origin.Hostname()) {
		return fmt.Errorf("%s: %w", rawURL, ErrForeignArticle)
	}
	return nil
}

func trimWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
