package providers

const (
	reutersProviderID = "reuters"
	reutersOrigin     = "https://www.reuters.com"
)

// NewReutersScraper builds a scraper for the Reuters world section.
func NewReutersScraper(client HTTPClient, opts ...Option) Scraper {
	return newListingScraper(listingConfig{
		id:               reutersProviderID,
		name:             "Reuters",
		listingURL:       reutersOrigin + "/world/",
		origin:           reutersOrigin,
		category:         "general",
		itemSelectors:    []string{`[data-testid="MediaStoryCard"]`, "article"},
		titleSelectors:   []string{"h3", "h2", `[data-testid="Heading"]`},
		summarySelectors: []string{"p"},
	}, client, opts)
}
