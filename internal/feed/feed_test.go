package feed

import (
	"strings"
	"testing"

	"github.com/samvad-hq/newsdesk/internal/domain"
)

func TestTransformDerivesFields(t *testing.T) {
	in := []domain.ScrapedArticle{
		{
			Title:         "Historic oil deal signed",
			Summary:       "The energy market reacts to new policy.",
			Content:       strings.Repeat("x", 401),
			PublishedDate: "2025-03-14T10:00:00Z",
			SourceURL:     "https://azertac.az/en/news/1",
		},
		{
			Title:         "Tech stocks rise",
			Summary:       "Short",
			PublishedDate: "sometime",
			SourceURL:     "https://www.bbc.com/news/2",
			Category:      "general",
		},
	}

	out := Transform(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(out))
	}

	a := out[0]
	if a.ID != 1 || out[1].ID != 2 {
		t.Errorf("expected positional ids, got %d, %d", a.ID, out[1].ID)
	}
	if a.Category != "energy" {
		t.Errorf("expected inferred category energy, got %q", a.Category)
	}
	if a.Region != "central-asia" || a.Countries[0] != "azerbaijan" {
		t.Errorf("unexpected region/country %q %v", a.Region, a.Countries)
	}
	if a.Impact != "critical" {
		t.Errorf("expected critical impact, got %q", a.Impact)
	}
	if a.Source != "Azertac" || a.Language != "en" {
		t.Errorf("unexpected source/language %q %q", a.Source, a.Language)
	}
	if a.Date != "2025-03-14" {
		t.Errorf("unexpected date %q", a.Date)
	}
	if a.ReadTime != 3 {
		t.Errorf("expected read time 3, got %d", a.ReadTime)
	}
	if strings.Join(a.KeyIndicators, ",") != "Market,Energy,Policy" {
		t.Errorf("unexpected indicators %v", a.KeyIndicators)
	}
	if len(a.Predictions) != 3 || a.Confidence != defaultConfidence {
		t.Errorf("unexpected predictions/confidence %v %v", a.Predictions, a.Confidence)
	}

	b := out[1]
	if b.Category != "general" {
		t.Errorf("explicit category should win, got %q", b.Category)
	}
	if b.Impact != "high" || b.Region != "global" || b.Source != "BBC News" {
		t.Errorf("unexpected derived fields %+v", b)
	}
	if b.ReadTime != 3 {
		t.Errorf("empty content should assume 500 chars, got %d", b.ReadTime)
	}
	if b.Date != "sometime" {
		t.Errorf("unparseable date should pass through, got %q", b.Date)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"https://azertac.az/en/news/1":  "en",
		"https://azertac.az/news/1":     "az",
		"https://www.reuters.com/world": "en",
	}
	for url, want := range cases {
		if got := detectLanguage(url); got != want {
			t.Errorf("detectLanguage(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestFilterCountry(t *testing.T) {
	in := []domain.ScrapedArticle{
		{SourceURL: "https://azertac.az/en/1"},
		{SourceURL: "https://www.bbc.com/news/1"},
		{SourceURL: "https://en.trend.az/2"},
	}
	if got := FilterCountry(in, "az"); len(got) != 2 {
		t.Errorf("expected 2 az articles, got %d", len(got))
	}
	if got := FilterCountry(in, "us"); len(got) != 3 {
		t.Errorf("other countries should keep all, got %d", len(got))
	}
}

func TestFilterCategory(t *testing.T) {
	in := []Article{{Category: "economy"}, {Category: "general"}}
	if got := FilterCategory(in, "Economy"); len(got) != 1 {
		t.Errorf("expected 1 economy article, got %d", len(got))
	}
	if got := FilterCategory(in, ""); len(got) != 2 {
		t.Errorf("empty category should keep all, got %d", len(got))
	}
}

func TestReadTimeCountsCharacters(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{strings.Repeat("ə", 200), 1},
		{strings.Repeat("ş", 201), 2},
		{strings.Repeat("a", 400), 2},
		{"", 3},
	}
	for _, tt := range tests {
		if got := readTime(tt.content); got != tt.want {
			t.Errorf("readTime(%d runes) = %d, want %d", len([]rune(tt.content)), got, tt.want)
		}
	}
}
