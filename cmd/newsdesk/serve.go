package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/newsdesk/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the news API",
		Long: `Start the JSON API.

Routes: /api/news, /api/news/{source}, /api/article, /api/extract-article,
/api/sources, /api/history and /healthz. When an archive or publishers file is
configured, every /api/news aggregation is archived and published.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx, withArchive(false), withPublishers(false))
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.HTTP.ListenAddr
			}

			opts := []server.Option{server.WithDefaultSources(a.cfg.Scrape.Sources)}
			if a.archive != nil {
				opts = append(opts, server.WithArchive(a.archive))
			}
			if a.publisher != nil {
				opts = append(opts, server.WithPublisher(a.publisher))
			}

			return server.New(addr, a.manager, a.extractor, a.log, opts...).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.listen_addr)")
	return cmd
}
