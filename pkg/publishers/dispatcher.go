package publishers

import (
	"context"
	"io"
	"time"

	"github.com/samvad-hq/newsdesk/internal/domain"
)

// Report summarizes one dispatch run.
type Report struct {
	Events    int `json:"events"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// sourceFilter wraps a publisher that only wants some sources.
type sourceFilter struct {
	Publisher
	cfg PublisherConfig
}

func filterSources(pub Publisher, cfg PublisherConfig) Publisher {
	if len(cfg.Sources) == 0 {
		return pub
	}
	return &sourceFilter{Publisher: pub, cfg: cfg}
}

func (f *sourceFilter) Close() error {
	if c, ok := f.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Dispatcher fans aggregated articles out to every configured publisher.
// Delivery failures are logged and counted; they never stop the run.
type Dispatcher struct {
	pubs []Publisher
	log  Logger
}

// NewDispatcher returns a dispatcher over pubs.
func NewDispatcher(pubs []Publisher, log Logger) *Dispatcher {
	return &Dispatcher{pubs: pubs, log: ensureLogger(log)}
}

// Len returns the number of publishers.
func (d *Dispatcher) Len() int { return len(d.pubs) }

// PublishAll converts articles to events and delivers each to every
// publisher that accepts its source.
func (d *Dispatcher) PublishAll(ctx context.Context, articles []domain.ScrapedArticle, scrapedAt time.Time) Report {
	rep := Report{Events: len(articles)}
	for _, art := range articles {
		evt := NewEvent(art, scrapedAt)
		for _, pub := range d.pubs {
			if ctx.Err() != nil {
				rep.Skipped++
				continue
			}
			if f, ok := pub.(*sourceFilter); ok && !f.cfg.Accepts(evt.SourceID) {
				rep.Skipped++
				continue
			}
			if err := pub.Publish(ctx, evt); err != nil {
				rep.Failed++
				d.log.WarnObj("publish failed", "publish_failed", map[string]any{
					"publisher_id": pub.ID(),
					"publisher":    pub.Type(),
					"event_id":     evt.ID,
					"source_id":    evt.SourceID,
					"error":        err.Error(),
				})
				continue
			}
			rep.Delivered++
		}
	}

	d.log.InfoObj("publish run completed", "publish_completed", map[string]any{
		"publishers": len(d.pubs),
		"events":     rep.Events,
		"delivered":  rep.Delivered,
		"failed":     rep.Failed,
		"skipped":    rep.Skipped,
	})
	return rep
}

// Close releases publisher resources.
func (d *Dispatcher) Close() {
	closeAll(d.pubs, d.log)
}

func closeAll(pubs []Publisher, log Logger) {
	for _, pub := range pubs {
		c, ok := pub.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			log.WarnObj("publisher close failed", "publisher_close_failed", map[string]any{
				"publisher_id": pub.ID(),
				"error":        err.Error(),
			})
		}
	}
}
