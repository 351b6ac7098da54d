package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/pkg/httpclient"
)

// DefaultMaxArticles caps the number of articles a scraper returns per call.
const DefaultMaxArticles = 20

// HTTPClient is the transport used by scrapers.
type HTTPClient = httpclient.Client

// Scraper produces normalized articles from one source's listing page or feed.
type Scraper interface {
	ID() string
	Name() string
	Scrape(ctx context.Context) ([]domain.ScrapedArticle, error)
}

// ArticleScraper extracts a single full article from a URL of its source.
type ArticleScraper interface {
	ScrapeArticle(ctx context.Context, url string) (domain.ScrapedArticle, error)
}

// Registry resolves source keys to scrapers. It is immutable once built.
type Registry interface {
	Lookup(key string) (Scraper, bool)
	Keys() []string
}

// FetchError reports a transport failure or a non-2xx response for a source.
type FetchError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s %s (status %d): %v", e.Source, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s %s: %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type options struct {
	maxArticles int
	userAgent   string
	endpoint    string
	origin      string
	now         func() time.Time
}

// Option customizes a scraper.
type Option func(*options)

// WithMaxArticles overrides the per-call article cap.
func WithMaxArticles(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxArticles = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithEndpoint points the scraper at a different listing or feed URL. origin
// is used to resolve relative links; empty keeps the source default.
func WithEndpoint(endpoint, origin string) Option {
	return func(o *options) {
		o.endpoint = endpoint
		if origin != "" {
			o.origin = origin
		}
	}
}

// WithClock sets the time source used for missing publication dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(endpoint, origin string, opts []Option) options {
	o := options{
		maxArticles: DefaultMaxArticles,
		endpoint:    endpoint,
		origin:      origin,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
