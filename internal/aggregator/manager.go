package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/internal/logger"
	"github.com/samvad-hq/newsdesk/pkg/providers"
)

// ErrSourceNotFound is returned by the single-source path for unknown keys.
var ErrSourceNotFound = errors.New("source not found")

// Manager runs scrapers concurrently and merges their output into one feed.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	registry providers.Registry
	log      logger.Logger
	now      func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock sets the time source used to rank unparseable dates.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager over the given registry.
func NewManager(registry providers.Registry, log logger.Logger, opts ...Option) *Manager {
	if registry == nil {
		registry = providers.NewRegistry()
	}
	m := &Manager{
		registry: registry,
		log:      logger.Ensure(log),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sources returns the registered source keys.
func (m *Manager) Sources() []string {
	return m.registry.Keys()
}

// Resolve returns the ids of the sources a bulk call with keys would scrape,
// in scrape order.
func (m *Manager) Resolve(keys []string) []string {
	scrapers := m.selectScrapers(keys)
	ids := make([]string, 0, len(scrapers))
	for _, s := range scrapers {
		ids = append(ids, s.ID())
	}
	return ids
}

// ScrapeAll scrapes the requested sources (all when keys is empty)
// concurrently. Unknown keys are ignored and a failing source contributes no
// articles. The result is sorted by publication date, newest first. An error
// is returned only when ctx is nil or already done.
func (m *Manager) ScrapeAll(ctx context.Context, keys []string) ([]domain.ScrapedArticle, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scrape all: %w", err)
	}

	started := m.now()
	scrapers := m.selectScrapers(keys)
	results := make([][]domain.ScrapedArticle, len(scrapers))

	var wg sync.WaitGroup
	for i, s := range scrapers {
		wg.Add(1)
		go func(idx int, s providers.Scraper) {
			defer wg.Done()
			results[idx] = m.scrapeIsolated(ctx, s)
		}(i, s)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]domain.ScrapedArticle, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}

	SortByRecency(merged, started)

	m.log.InfoObj("aggregation complete", "scrape_all", map[string]any{
		"sources":  len(scrapers),
		"articles": len(merged),
		"duration": m.now().Sub(started).String(),
	})
	return merged, nil
}

// ScrapeSource scrapes a single named source. Unknown keys yield
// ErrSourceNotFound and scraper errors are returned to the caller.
func (m *Manager) ScrapeSource(ctx context.Context, key string) ([]domain.ScrapedArticle, error) {
	s, ok := m.registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("scraper for %q: %w", key, ErrSourceNotFound)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	articles, err := s.Scrape(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", s.ID(), err)
	}
	return articles, nil
}

// ArticleScraper returns the single-article capability of a source.
func (m *Manager) ArticleScraper(key string) (providers.ArticleScraper, error) {
	s, ok := m.registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("scraper for %q: %w", key, ErrSourceNotFound)
	}
	as, ok := s.(providers.ArticleScraper)
	if !ok {
		return nil, fmt.Errorf("source %q does not support single articles", s.ID())
	}
	return as, nil
}

// selectScrapers resolves keys to scrapers, dropping unknown keys and
// duplicates while preserving request order.
func (m *Manager) selectScrapers(keys []string) []providers.Scraper {
	if len(keys) == 0 {
		keys = m.registry.Keys()
	}

	seen := make(map[string]struct{}, len(keys))
	out := make([]providers.Scraper, 0, len(keys))
	for _, key := range keys {
		s, ok := m.registry.Lookup(key)
		if !ok {
			if strings.TrimSpace(key) != "" {
				m.log.DebugObj("ignoring unknown source", "unknown_source", map[string]any{"source": key})
			}
			continue
		}
		if _, dup := seen[s.ID()]; dup {
			continue
		}
		seen[s.ID()] = struct{}{}
		out = append(out, s)
	}
	return out
}

// scrapeIsolated runs one scraper and turns any error or panic into an empty
// result.
func (m *Manager) scrapeIsolated(ctx context.Context, s providers.Scraper) (articles []domain.ScrapedArticle) {
	start := m.now()
	defer func() {
		if r := recover(); r != nil {
			m.log.ErrorObj("source scrape panicked", "source_panic", map[string]any{
				"source": s.ID(),
				"panic":  fmt.Sprint(r),
			})
			articles = nil
		}
	}()

	articles, err := s.Scrape(ctx)
	if err != nil {
		m.log.WarnObj("source scrape failed", "source_error", map[string]any{
			"source":   s.ID(),
			"error":    err.Error(),
			"duration": m.now().Sub(start).String(),
		})
		return nil
	}

	m.log.DebugObj("source scraped", "source_done", map[string]any{
		"source":   s.ID(),
		"articles": len(articles),
		"duration": m.now().Sub(start).String(),
	})
	return articles
}

// SortByRecency orders articles by publication date, newest first. Dates that
// do not parse rank as fallback. The sort is stable.
func SortByRecency(articles []domain.ScrapedArticle, fallback time.Time) {
	keys := make([]time.Time, len(articles))
	for i, a := range articles {
		if t, ok := domain.ParsePublishedDate(a.PublishedDate); ok {
			keys[i] = t
		} else {
			keys[i] = fallback
		}
	}

	sort.Stable(byRecency{articles: articles, keys: keys})
}

type byRecency struct {
	articles []domain.ScrapedArticle
	keys     []time.Time
}

func (b byRecency) Len() int           { return len(b.articles) }
func (b byRecency) Less(i, j int) bool { return b.keys[i].After(b.keys[j]) }
func (b byRecency) Swap(i, j int) {
	b.articles[i], b.articles[j] = b.articles[j], b.articles[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
