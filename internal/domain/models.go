package domain

import (
	"strings"
	"time"
)

// Domain contains core models and interfaces.

// ScrapedArticle is a single article teaser produced by a source scraper.
type ScrapedArticle struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Content       string `json:"content"`
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"publishedDate"`
	SourceURL     string `json:"sourceUrl"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Category      string `json:"category,omitempty"`
	SourceID      string `json:"sourceId,omitempty"`
}

var publishedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	"02 January 2006 15:04",
	"2 January 2006 15:04",
	"02 January 2006",
	"2 January 2006",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParsePublishedDate parses a source-native date string into an instant.
func ParsePublishedDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range publishedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPublishedDate normalizes raw to RFC3339 (UTC) when it parses, keeps it
// unchanged when it does not, and falls back to now when it is empty.
func FormatPublishedDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UTC().Format(time.RFC3339)
	}
	if t, ok := ParsePublishedDate(raw); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return raw
}
