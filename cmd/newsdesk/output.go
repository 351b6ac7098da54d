package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samvad-hq/newsdesk/internal/archive"
	"github.com/samvad-hq/newsdesk/internal/domain"
)

const titleWidth = 80

var timeNow = time.Now

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printArticles(w io.Writer, articles []domain.ScrapedArticle) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPUBLISHED\tTITLE\tURL")
	for _, a := range articles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.SourceID, a.PublishedDate, shorten(a.Title, titleWidth), a.SourceURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d articles\n", len(articles))
	return err
}

func printSnapshots(w io.Writer, snaps []archive.Snapshot) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "no snapshots archived")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CAPTURED\tARTICLES\tSOURCES")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.CapturedAt.Format(time.RFC3339), len(s.Articles), strings.Join(s.Sources, ","))
	}
	return tw.Flush()
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
