// Command newsdesk aggregates news from the configured sources and serves
// the result over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/newsdesk/internal/aggregator"
	"github.com/samvad-hq/newsdesk/internal/archive"
	"github.com/samvad-hq/newsdesk/internal/config"
	"github.com/samvad-hq/newsdesk/internal/extract"
	"github.com/samvad-hq/newsdesk/internal/logger"
	"github.com/samvad-hq/newsdesk/pkg/httpclient"
	"github.com/samvad-hq/newsdesk/pkg/providers"
	"github.com/samvad-hq/newsdesk/pkg/publishers"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "newsdesk",
		Short:         "Concurrent news aggregation across Azertac, Trend, Bloomberg, BBC and Reuters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./newsdesk.yaml)")

	rootCmd.AddCommand(serveCmd(), scrapeCmd(), sourceCmd(), extractCmd(), historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the components shared by every subcommand.
type app struct {
	cfg       config.Config
	log       logger.Logger
	manager   *aggregator.Manager
	extractor *extract.Extractor
	archive   *archive.Store
	publisher *publishers.Dispatcher
}

type appOption func(context.Context, *app) error

// withArchive opens the snapshot archive. required makes a missing
// archive.path an error.
func withArchive(required bool) appOption {
	return func(_ context.Context, a *app) error {
		if a.cfg.Archive.Path == "" {
			if required {
				return fmt.Errorf("archive.path is not configured")
			}
			return nil
		}
		store, err := archive.Open(a.cfg.Archive.Path, a.cfg.Archive.MaxSnapshots)
		if err != nil {
			return err
		}
		a.archive = store
		return nil
	}
}

// withPublishers builds the configured publishers.
func withPublishers(required bool) appOption {
	return func(ctx context.Context, a *app) error {
		if a.cfg.Publishers.File == "" {
			if required {
				return fmt.Errorf("publishers.file is not configured")
			}
			return nil
		}
		cfgs, err := publishers.LoadConfigs(a.cfg.Publishers.File)
		if err != nil {
			return err
		}
		pubs, err := publishers.DefaultRegistry().BuildAll(ctx, cfgs, a.log)
		if err != nil {
			return err
		}
		a.publisher = publishers.NewDispatcher(pubs, a.log)
		return nil
	}
}

func newApp(ctx context.Context, opts ...appOption) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	client := httpclient.NewRestyClient(cfg.HTTP.Timeout)
	registry := providers.DefaultRegistry(client,
		providers.WithMaxArticles(cfg.Scrape.MaxArticles),
		providers.WithUserAgent(cfg.HTTP.UserAgent),
	)

	a := &app{
		cfg:       cfg,
		log:       log,
		manager:   aggregator.NewManager(registry, log),
		extractor: extract.NewExtractor(client, cfg.HTTP.UserAgent, log),
	}
	for _, opt := range opts {
		if err := opt(ctx, a); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.log.WarnObj("archive close failed", "archive_close_failed", map[string]any{"error": err.Error()})
		}
	}
	_ = a.log.Sync()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
