// Package server exposes the aggregation engine over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/newsdesk/internal/aggregator"
	"github.com/samvad-hq/newsdesk/internal/archive"
	"github.com/samvad-hq/newsdesk/internal/domain"
	"github.com/samvad-hq/newsdesk/internal/extract"
	"github.com/samvad-hq/newsdesk/internal/feed"
	"github.com/samvad-hq/newsdesk/internal/logger"
	"github.com/samvad-hq/newsdesk/pkg/publishers"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	defaultHistory    = 10
)

// articleSource is the single-article capability exposed at /api/article.
const articleSource = "azertac"

// Extractor pulls article bodies from arbitrary URLs.
type Extractor interface {
	Extract(ctx context.Context, url string) (extract.Result, error)
}

// Archive stores and lists aggregation snapshots.
type Archive interface {
	Save(snap archive.Snapshot) error
	List(limit int) ([]archive.Snapshot, error)
}

// Publisher receives every bulk aggregation result.
type Publisher interface {
	PublishAll(ctx context.Context, articles []domain.ScrapedArticle, scrapedAt time.Time) publishers.Report
}

// Server serves the news API.
type Server struct {
	mux       *http.ServeMux
	addr      string
	manager   *aggregator.Manager
	extractor Extractor
	archive   Archive
	publisher Publisher
	defaults  []string
	log       logger.Logger
	now       func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithArchive stores a snapshot after every bulk aggregation.
func WithArchive(a Archive) Option {
	return func(s *Server) { s.archive = a }
}

// WithPublisher publishes every bulk aggregation.
func WithPublisher(p Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithDefaultSources restricts /api/news to keys when the request names no
// sources.
func WithDefaultSources(keys []string) Option {
	return func(s *Server) { s.defaults = keys }
}

// New creates a server listening on addr.
func New(addr string, manager *aggregator.Manager, extractor Extractor, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		addr:      addr,
		manager:   manager,
		extractor: extractor,
		log:       logger.Ensure(log),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("api server starting", "server_start", map[string]any{"addr": s.addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.InfoObj("api server stopping", "server_stop", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/sources", s.handleSources)
	s.mux.HandleFunc("GET /api/news", s.handleNews)
	s.mux.HandleFunc("GET /api/news/{source}", s.handleSource)
	s.mux.HandleFunc("GET /api/article", s.handleArticle)
	s.mux.HandleFunc("GET /api/extract-article", s.handleExtract)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "sources": s.manager.Sources()})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	keys := s.defaults
	if raw := strings.TrimSpace(q.Get("sources")); raw != "" {
		keys = strings.Split(raw, ",")
	}

	scrapedAt := s.now()
	articles, err := s.manager.ScrapeAll(r.Context(), keys)
	if err != nil {
		s.log.ErrorObj("news aggregation failed", "api_news_error", map[string]any{"error": err.Error()})
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to scrape news",
			"message": err.Error(),
		})
		return
	}
	if err := r.Context().Err(); err != nil {
		s.log.WarnObj("news request ended before aggregation finished", "api_news_cancelled", map[string]any{
			"error":    err.Error(),
			"articles": len(articles),
		})
	} else {
		s.afterAggregation(r.Context(), keys, articles, scrapedAt)
	}

	decorated := feed.FilterCategory(feed.Transform(feed.FilterCountry(articles, q.Get("country"))), q.Get("category"))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"articles": decorated,
		"count":    len(decorated),
	})
}

// afterAggregation archives and publishes a bulk result. Requests that
// resolved to no source are not recorded. Failures are logged and never
// affect the response.
func (s *Server) afterAggregation(ctx context.Context, keys []string, articles []domain.ScrapedArticle, scrapedAt time.Time) {
	sources := s.manager.Resolve(keys)
	if len(sources) == 0 {
		return
	}
	if s.archive != nil {
		snap := archive.Snapshot{CapturedAt: scrapedAt, Sources: sources, Articles: articles}
		if err := s.archive.Save(snap); err != nil {
			s.log.WarnObj("snapshot archive failed", "archive_save_failed", map[string]any{"error": err.Error()})
		}
	}
	if s.publisher != nil {
		s.publisher.PublishAll(ctx, articles, scrapedAt)
	}
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("source")
	articles, err := s.manager.ScrapeSource(r.Context(), key)
	switch {
	case errors.Is(err, aggregator.ErrSourceNotFound):
		s.jsonResponse(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "Unknown source",
			"message": err.Error(),
		})
		return
	case err != nil:
		s.log.WarnObj("single source scrape failed", "api_source_error", map[string]any{
			"source": key,
			"error":  err.Error(),
		})
		s.jsonResponse(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "Failed to scrape source",
			"message": err.Error(),
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"source":   key,
		"articles": articles,
		"count":    len(articles),
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{"success": false, "error": "URL is required"})
		return
	}

	as, err := s.manager.ArticleScraper(articleSource)
	if err != nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]any{"success": false, "error": err.Error()})
		return
	}
	art, err := as.ScrapeArticle(r.Context(), url)
	if err != nil {
		s.log.WarnObj("article scrape failed", "api_article_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		s.jsonResponse(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "Failed to scrape article",
			"message": err.Error(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "article": art})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{"success": false, "error": "URL is required"})
		return
	}

	res, err := s.extractor.Extract(r.Context(), url)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		s.log.WarnObj("article extraction failed", "api_extract_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		s.jsonResponse(w, status, map[string]any{
			"success": false,
			"error":   "Failed to extract article content",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"content": res.Content,
		"html":    res.HTML,
		"author":  res.Author,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{"success": false, "error": "archive not configured"})
		return
	}

	limit := defaultHistory
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.jsonResponse(w, http.StatusBadRequest, map[string]any{"success": false, "error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	snaps, err := s.archive.List(limit)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "snapshots": snaps, "count": len(snaps)})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WarnObj("response encode failed", "api_encode_error", map[string]any{"error": err.Error()})
	}
}
