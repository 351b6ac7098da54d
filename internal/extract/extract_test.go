package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/newsdesk/pkg/httpclient"
)

func TestParseArticleContainer(t *testing.T) {
	page := `<html><head>
		<title>Fallback title</title>
		<meta name="author" content="Jane Roe">
	</head><body>
		<nav>Menu</nav>
		<article>
			<h1>Headline</h1>
			<script>track()</script>
			<div class="ad">Buy now</div>
			<p>Body   text.</p>
			<iframe src="x"></iframe>
		</article>
	</body></html>`

	res, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Author != "Jane Roe" {
		t.Errorf("unexpected author %q", res.Author)
	}
	if res.Title != "Fallback title" {
		t.Errorf("unexpected title %q", res.Title)
	}
	if res.Content != "Headline Body text." {
		t.Errorf("unexpected content %q", res.Content)
	}
	for _, unwanted := range []string{"track()", "Buy now", "<iframe", "Menu"} {
		if strings.Contains(res.HTML, unwanted) {
			t.Errorf("html should not contain %q: %s", unwanted, res.HTML)
		}
	}
	if !strings.Contains(res.HTML, "<h1>Headline</h1>") {
		t.Errorf("html should keep markup: %s", res.HTML)
	}
}

func TestParseDecodesEntitiesInContent(t *testing.T) {
	page := `<html><body><article><p>Oil &amp; gas: Baku&#39;s &quot;deal&quot;</p></article></body></html>`

	res, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := `Oil & gas: Baku's "deal"`; res.Content != want {
		t.Errorf("content = %q, want %q", res.Content, want)
	}
	if !strings.Contains(res.HTML, "&amp;") {
		t.Errorf("html should stay escaped: %s", res.HTML)
	}
}

func TestParseParagraphFallback(t *testing.T) {
	long1 := strings.Repeat("a", 60)
	long2 := strings.Repeat("b", 51)
	page := `<html><head><meta property="article:author" content="Desk"></head><body>
		<div><p>short</p><p>` + long1 + `</p><p>` + long2 + `</p></div>
	</body></html>`

	res, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Content != long1+"\n\n"+long2 {
		t.Errorf("unexpected content %q", res.Content)
	}
	if res.Author != "Desk" {
		t.Errorf("unexpected author %q", res.Author)
	}
}

func TestExtractFetchesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			http.Error(w, "no ua", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`<main><p>Main body</p></main>`))
	}))
	defer srv.Close()

	e := NewExtractor(httpclient.NewRestyClient(2*time.Second), "", nil)
	res, err := e.Extract(context.Background(), srv.URL+"/story")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Content != "Main body" {
		t.Errorf("unexpected content %q", res.Content)
	}
}

func TestExtractRejectsInvalidURL(t *testing.T) {
	e := NewExtractor(nil, "", nil)
	for _, raw := range []string{"", "ftp://example.com/x", "not a url"} {
		if _, err := e.Extract(context.Background(), raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Extract(%q): expected ErrInvalidURL, got %v", raw, err)
		}
	}
}

func TestExtractBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	e := NewExtractor(httpclient.NewRestyClient(2*time.Second), "", nil)
	if _, err := e.Extract(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
