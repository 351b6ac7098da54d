package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/newsdesk/internal/archive"
)

func scrapeCmd() *cobra.Command {
	var (
		sources     string
		saveArchive bool
		publish     bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape every source concurrently and print the merged feed",
		Long: `Run one bulk aggregation.

Sources are scraped in parallel. A failing source is logged and contributes
no articles. The merged feed is sorted newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			var opts []appOption
			if saveArchive {
				opts = append(opts, withArchive(true))
			}
			if publish {
				opts = append(opts, withPublishers(true))
			}
			a, err := newApp(ctx, opts...)
			if err != nil {
				return err
			}
			defer a.close()

			keys := a.cfg.Scrape.Sources
			if sources != "" {
				keys = strings.Split(sources, ",")
			}

			started := timeNow()
			articles, err := a.manager.ScrapeAll(ctx, keys)
			if err != nil {
				return err
			}

			if snapKeys := a.manager.Resolve(keys); a.archive != nil && len(snapKeys) > 0 {
				if err := a.archive.Save(archive.Snapshot{CapturedAt: started, Sources: snapKeys, Articles: articles}); err != nil {
					return fmt.Errorf("archive snapshot: %w", err)
				}
			}
			if a.publisher != nil {
				rep := a.publisher.PublishAll(ctx, articles, started)
				fmt.Fprintf(cmd.ErrOrStderr(), "published %d/%d deliveries (%d failed)\n",
					rep.Delivered, rep.Delivered+rep.Failed, rep.Failed)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), articles)
			}
			return printArticles(cmd.OutOrStdout(), articles)
		},
	}

	cmd.Flags().StringVarP(&sources, "sources", "s", "", "comma-separated source keys (default: scrape.sources or all)")
	cmd.Flags().BoolVar(&saveArchive, "archive", false, "store the result in the snapshot archive")
	cmd.Flags().BoolVar(&publish, "publish", false, "send every article to the configured publishers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func sourceCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "source <key>",
		Short: "Scrape a single source; fails on unknown keys and scraper errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			articles, err := a.manager.ScrapeSource(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), articles)
			}
			return printArticles(cmd.OutOrStdout(), articles)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func extractCmd() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract the main body of an article page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.extractor.Extract(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Title != "" {
				fmt.Fprintf(out, "Title:  %s\n", res.Title)
			}
			if res.Author != "" {
				fmt.Fprintf(out, "Author: %s\n", res.Author)
			}
			fmt.Fprintln(out)
			if asHTML {
				fmt.Fprintln(out, res.HTML)
			} else {
				fmt.Fprintln(out, res.Content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "print the cleaned HTML instead of plain text")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived aggregation snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx, withArchive(true))
			if err != nil {
				return err
			}
			defer a.close()

			snaps, err := a.archive.List(limit)
			if err != nil {
				return err
			}
			return printSnapshots(cmd.OutOrStdout(), snaps)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of snapshots to show")
	return cmd
}
