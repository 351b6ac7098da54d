package publishers

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"time"

	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/internal/logger"
)

// Logger is the structured logger used by publishers.
type Logger = logger.Logger

// Event is the message sent downstream for every aggregated article.
type Event struct {
	ID            string    `json:"id"`
	SourceID      string    `json:"source_id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Summary       string    `json:"summary,omitempty"`
	Author        string    `json:"author,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Category      string    `json:"category,omitempty"`
	PublishedDate string    `json:"published_date"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// NewEvent builds the event for art. The id is derived from the article URL,
// so repeated scrapes of the same article share an id.
func NewEvent(art domain.ScrapedArticle, scrapedAt time.Time) Event {
	return Event{
		ID:            hashURL(art.SourceURL),
		SourceID:      art.SourceID,
		Title:         art.Title,
		URL:           art.SourceURL,
		Summary:       art.Summary,
		Author:        art.Author,
		ImageURL:      art.ImageURL,
		Category:      art.Category,
		PublishedDate: art.PublishedDate,
		ScrapedAt:     scrapedAt.UTC(),
	}
}

// Publisher delivers events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// hashURL generates a SHA-1 hash of the given URL string.
func hashURL(u string) string {
	sum := sha1.Sum([]byte(u))
	return hex.EncodeToString(sum[:])
}

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}
