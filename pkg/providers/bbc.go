package providers

const (
	bbcProviderID = "bbc"
	bbcOrigin     = "https://www.bbc.com"
)

// NewBBCScraper builds a scraper for the BBC News front page. The listing
// carries no dates, so articles are stamped with the scrape time.
func NewBBCScraper(client HTTPClient, opts ...Option) Scraper {
	return newListingScraper(listingConfig{
		id:               bbcProviderID,
		name:             "BBC News",
		listingURL:       bbcOrigin + "/news",
		origin:           bbcOrigin,
		category:         "general",
		itemSelectors:    []string{"article", `[data-testid="card-headline"]`},
		titleSelectors:   []string{"h2", "h3", `[data-testid="card-headline"]`},
		summarySelectors: []string{"p"},
	}, client, opts)
}
