package aggregator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/pkg/httpclient"
	"github.com/samvad-hq/newsdesk/pkg/providers"
)

var baseTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type stubScraper struct {
	id       string
	articles []domain.ScrapedArticle
	err      error
	delay    time.Duration
	panics   bool
	calls    atomic.Int32
}

func (s *stubScraper) ID() string   { return s.id }
func (s *stubScraper) Name() string { return s.id }

func (s *stubScraper) Scrape(ctx context.Context) ([]domain.ScrapedArticle, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.panics {
		panic("selector exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func article(source, title string, age time.Duration) domain.ScrapedArticle {
	return domain.ScrapedArticle{
		Title:         title,
		SourceURL:     "https://" + source + ".example/" + title,
		PublishedDate: baseTime.Add(-age).Format(time.RFC3339),
		SourceID:      source,
	}
}

func titles(articles []domain.ScrapedArticle) string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	return strings.Join(out, ",")
}

func newTestManager(scrapers ...providers.Scraper) *Manager {
	return NewManager(providers.NewRegistry(scrapers...), nil, WithClock(func() time.Time { return baseTime }))
}

func TestScrapeAllIsolatesFailingSource(t *testing.T) {
	one := &stubScraper{id: "one", articles: []domain.ScrapedArticle{article("one", "a", 3*time.Hour), article("one", "b", time.Hour)}}
	two := &stubScraper{id: "two", err: errors.New("connection reset")}
	three := &stubScraper{id: "three", articles: []domain.ScrapedArticle{article("three", "c", 2*time.Hour)}}

	m := newTestManager(one, two, three)
	got, err := m.ScrapeAll(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("scrape all: %v", err)
	}
	if titles(got) != "b,c,a" {
		t.Fatalf("expected b,c,a got %s", titles(got))
	}
}

func TestScrapeAllIsolatesPanics(t *testing.T) {
	ok := &stubScraper{id: "ok", articles: []domain.ScrapedArticle{article("ok", "a", 0)}}
	bad := &stubScraper{id: "bad", panics: true}

	got, err := newTestManager(ok, bad).ScrapeAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("scrape all: %v", err)
	}
	if titles(got) != "a" {
		t.Fatalf("expected only a, got %s", titles(got))
	}
}

func TestScrapeAllTimeoutScenario(t *testing.T) {
	// Source two hangs until its own request timeout fires.
	hang := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-hang:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(hang)

	one := &stubScraper{id: "one", articles: []domain.ScrapedArticle{article("one", "a", time.Hour)}}
	two := providers.NewBBCScraper(httpclient.NewRestyClient(100*time.Millisecond), providers.WithEndpoint(srv.URL, ""))
	three := &stubScraper{id: "three", articles: []domain.ScrapedArticle{article("three", "c", time.Minute)}}

	got, err := newTestManager(one, two, three).ScrapeAll(context.Background(), []string{"one", "bbc", "three"})
	if err != nil {
		t.Fatalf("scrape all: %v", err)
	}
	if titles(got) != "c,a" {
		t.Fatalf("expected c,a got %s", titles(got))
	}
}

func TestScrapeAllRunsConcurrently(t *testing.T) {
	var scrapers []providers.Scraper
	for _, id := range []string{"a", "b", "c", "d"} {
		scrapers = append(scrapers, &stubScraper{id: id, delay: 200 * time.Millisecond})
	}
	m := NewManager(providers.NewRegistry(scrapers...), nil)

	start := time.Now()
	if _, err := m.ScrapeAll(context.Background(), nil); err != nil {
		t.Fatalf("scrape all: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 600*time.Millisecond {
		t.Fatalf("expected concurrent execution, took %s", elapsed)
	}
}

func TestScrapeAllIgnoresUnknownKeys(t *testing.T) {
	one := &stubScraper{id: "one", articles: []domain.ScrapedArticle{article("one", "a", 0)}}
	two := &stubScraper{id: "two", articles: []domain.ScrapedArticle{article("two", "b", time.Hour)}}

	got, err := newTestManager(one, two).ScrapeAll(context.Background(), []string{"nonexistent", "two", "", "TWO"})
	if err != nil {
		t.Fatalf("scrape all: %v", err)
	}
	if titles(got) != "b" {
		t.Fatalf("expected b, got %s", titles(got))
	}
	if one.calls.Load() != 0 {
		t.Error("unselected source should not be scraped")
	}
	if two.calls.Load() != 1 {
		t.Errorf("duplicate keys should scrape once, got %d calls", two.calls.Load())
	}
}

func TestScrapeAllAllFailingIsEmptySuccess(t *testing.T) {
	one := &stubScraper{id: "one", err: errors.New("down")}
	two := &stubScraper{id: "two", err: errors.New("down")}

	got, err := newTestManager(one, two).ScrapeAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty feed, got %d", len(got))
	}
}

func TestScrapeAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestManager().ScrapeAll(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScrapeSourceStrict(t *testing.T) {
	one := &stubScraper{id: "one", articles: []domain.ScrapedArticle{article("one", "a", 0)}}
	m := newTestManager(one)

	_, err := m.ScrapeSource(context.Background(), "nonexistent")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should mention not found: %v", err)
	}

	got, err := m.ScrapeSource(context.Background(), "one")
	if err != nil || titles(got) != "a" {
		t.Fatalf("unexpected result %v %v", got, err)
	}
}

func TestScrapeSourcePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	m := newTestManager(&stubScraper{id: "one", err: boom})

	if _, err := m.ScrapeSource(context.Background(), "one"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped scraper error, got %v", err)
	}
}

func TestArticleScraperLookup(t *testing.T) {
	m := NewManager(providers.DefaultRegistry(nil), nil)

	if _, err := m.ArticleScraper("azertac"); err != nil {
		t.Fatalf("azertac should support single articles: %v", err)
	}
	if _, err := m.ArticleScraper("bbc"); err == nil {
		t.Error("bbc should not support single articles")
	}
	if _, err := m.ArticleScraper("nope"); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestSortByRecency(t *testing.T) {
	articles := []domain.ScrapedArticle{
		{Title: "old", PublishedDate: "2024-01-01T00:00:00Z"},
		{Title: "rss", PublishedDate: "Fri, 14 Mar 2025 10:00:00 +0000"},
		{Title: "garbage", PublishedDate: "last week"},
		{Title: "new", PublishedDate: "2025-03-14T11:00:00Z"},
		{Title: "future", PublishedDate: "2025-03-15T00:00:00Z"},
	}

	SortByRecency(articles, baseTime)

	if titles(articles) != "future,garbage,new,rss,old" {
		t.Fatalf("unexpected order %s", titles(articles))
	}
	for i := 1; i < len(articles); i++ {
		prev, okPrev := domain.ParsePublishedDate(articles[i-1].PublishedDate)
		cur, okCur := domain.ParsePublishedDate(articles[i].PublishedDate)
		if okPrev && okCur && cur.After(prev) {
			t.Errorf("dates increase at %d", i)
		}
	}
}

func TestResolveReportsSelectedSources(t *testing.T) {
	m := newTestManager(&stubScraper{id: "one"}, &stubScraper{id: "two"})

	tests := []struct {
		keys []string
		want string
	}{
		{nil, "one,two"},
		{[]string{"TWO", "missing", "two", "one"}, "two,one"},
		{[]string{"missing", ""}, ""},
	}
	for _, tt := range tests {
		if got := strings.Join(m.Resolve(tt.keys), ","); got != tt.want {
			t.Errorf("Resolve(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}
