package publishers

import (
	"context"
	"fmt"
	"strings"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders. It is read-only after
// construction.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry for the given type-to-builder map.
func NewRegistry(builders map[string]Builder) *Registry {
	r := &Registry{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		if typ = strings.ToLower(strings.TrimSpace(typ)); typ != "" && b != nil {
			r.builders[typ] = b
		}
	}
	return r
}

// DefaultRegistry knows the webhook and cloud queue publishers.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:  newHTTPPublisher,
		TypeQueue: newQueuePublisher,
	})
}

// Build returns the publisher for cfg.
func (r *Registry) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	builder := r.builders[strings.ToLower(cfg.Type)]
	if builder == nil {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, log)
}

// BuildAll instantiates the enabled publishers among cfgs. A build failure
// aborts and closes whatever was already built.
func (r *Registry) BuildAll(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log = ensureLogger(log)

	var pubs []Publisher
	for _, cfg := range EnabledConfigs(cfgs) {
		pub, err := r.Build(ctx, cfg, log)
		if err != nil {
			closeAll(pubs, log)
			return nil, err
		}
		pubs = append(pubs, filterSources(pub, cfg))
	}
	return pubs, nil
}
