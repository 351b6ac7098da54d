package providers

const (
	trendProviderID = "trend"
	trendOrigin     = "https://en.trend.az"
)

// NewTrendScraper builds a scraper for the Trend News Agency English listing.
// It shares the listing extractor with Azertac and differs only in selectors.
func NewTrendScraper(client HTTPClient, opts ...Option) Scraper {
	return newListingScraper(listingConfig{
		id:               trendProviderID,
		name:             "Trend News Agency",
		listingURL:       trendOrigin + "/",
		origin:           trendOrigin,
		category:         "general",
		itemSelectors:    []string{".news", ".block_news", "article"},
		titleSelectors:   []string{"h3", "h2", ".title"},
		summarySelectors: []string{"p"},
		dateSelectors:    []string{".date", "time", ".time"},
	}, client, opts)
}
