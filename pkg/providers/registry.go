package providers

import (
	"strings"
	"time"

	"github.com/samvad-hq/newsdesk/pkg/httpclient"
)

// DefaultTimeout bounds every outbound scrape request.
const DefaultTimeout = 10 * time.Second

type scraperRegistry struct {
	scrapers map[string]Scraper
	keys     []string
}

// NewRegistry builds an immutable registry keyed by each scraper's
// lowercased id. Later duplicates replace earlier ones.
func NewRegistry(scrapers ...Scraper) Registry {
	reg := &scraperRegistry{
		scrapers: make(map[string]Scraper, len(scrapers)),
	}

	for _, s := range scrapers {
		if s == nil {
			continue
		}
		key := normalizeKey(s.ID())
		if key == "" {
			continue
		}
		if _, exists := reg.scrapers[key]; !exists {
			reg.keys = append(reg.keys, key)
		}
		reg.scrapers[key] = s
	}

	return reg
}

// Lookup returns the scraper registered under key.
func (r *scraperRegistry) Lookup(key string) (Scraper, bool) {
	s, ok := r.scrapers[normalizeKey(key)]
	return s, ok
}

// Keys returns the registered keys in registration order.
func (r *scraperRegistry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// DefaultHTTPClient returns the resty-backed client used by scrapers.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(DefaultTimeout) }

// DefaultRegistry wires up the known sources.
func DefaultRegistry(client HTTPClient, opts ...Option) Registry {
	if client == nil {
		client = DefaultHTTPClient()
	}

	return NewRegistry(
		NewAzertacScraper(client, opts...),
		NewTrendScraper(client, opts...),
		NewBloombergScraper(client, opts...),
		NewBBCScraper(client, opts...),
		NewReutersScraper(client, opts...),
	)
}
