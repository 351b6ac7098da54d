// Package feed decorates aggregated articles with the derived display fields
// served by the news API.
package feed

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samvad-hq/newsdesk/internal/domain"
)

const (
	defaultConfidence   = 0.85
	defaultContentChars = 500
	charsPerMinute      = 200
	insightSummaryLen   = 150
)

// Prediction is a coarse trend call for one horizon.
type Prediction struct {
	Trend       string `json:"trend"`
	Value       int    `json:"value"`
	Description string `json:"description"`
}

// Article is the decorated article returned to API clients.
type Article struct {
	ID              int                   `json:"id"`
	Title           string                `json:"title"`
	Summary         string                `json:"summary"`
	Category        string                `json:"category"`
	Region          string                `json:"region"`
	Countries       []string              `json:"countries"`
	Impact          string                `json:"impact"`
	Source          string                `json:"source"`
	Date            string                `json:"date"`
	AIInsight       string                `json:"aiInsight"`
	RootCause       string                `json:"rootCause"`
	Confidence      float64               `json:"confidence"`
	Predictions     map[string]Prediction `json:"predictions"`
	KeyIndicators   []string              `json:"keyIndicators"`
	ReadTime        int                   `json:"readTime"`
	Language        string                `json:"language"`
	PublishedDate   string                `json:"publishedDate"`
	SourceURL       string                `json:"sourceUrl"`
	Author          string                `json:"author,omitempty"`
	ImageURL        string                `json:"imageUrl,omitempty"`
	FullContent     string                `json:"fullContent"`
	FullHTMLContent string                `json:"fullHtmlContent"`
}

// Transform decorates articles, assigning 1-based positional ids.
func Transform(articles []domain.ScrapedArticle) []Article {
	out := make([]Article, 0, len(articles))
	for i, a := range articles {
		category := a.Category
		if category == "" {
			category = DetermineCategory(a.Title)
		}

		out = append(out, Article{
			ID:              i + 1,
			Title:           a.Title,
			Summary:         a.Summary,
			Category:        category,
			Region:          determineRegion(a.SourceURL),
			Countries:       []string{determineCountry(a.SourceURL)},
			Impact:          determineImpact(a.Title),
			Source:          SourceName(a.SourceURL),
			Date:            displayDate(a.PublishedDate),
			AIInsight:       generateInsight(a.Title, a.Summary),
			RootCause:       generateRootCause(a.Title),
			Confidence:      defaultConfidence,
			Predictions:     defaultPredictions(),
			KeyIndicators:   extractKeywords(a.Title, a.Summary),
			ReadTime:        readTime(a.Content),
			Language:        detectLanguage(a.SourceURL),
			PublishedDate:   a.PublishedDate,
			SourceURL:       a.SourceURL,
			Author:          a.Author,
			ImageURL:        a.ImageURL,
			FullContent:     a.Content,
			FullHTMLContent: a.Content,
		})
	}
	return out
}

// FilterCountry keeps articles for the given country code. Only "az" narrows
// the feed; other codes keep everything.
func FilterCountry(articles []domain.ScrapedArticle, country string) []domain.ScrapedArticle {
	if strings.ToLower(strings.TrimSpace(country)) != "az" {
		return articles
	}
	out := make([]domain.ScrapedArticle, 0, len(articles))
	for _, a := range articles {
		if isAzerbaijani(a.SourceURL) {
			out = append(out, a)
		}
	}
	return out
}

// FilterCategory keeps decorated articles in the given category. An empty
// category keeps everything.
func FilterCategory(articles []Article, category string) []Article {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return articles
	}
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// SourceName maps an article URL to the outlet display name.
func SourceName(url string) string {
	switch {
	case strings.Contains(url, "azertac"):
		return "Azertac"
	case strings.Contains(url, "trend.az"):
		return "Trend News Agency"
	case strings.Contains(url, "bloomberg"):
		return "Bloomberg"
	case strings.Contains(url, "bbc"):
		return "BBC News"
	case strings.Contains(url, "reuters"):
		return "Reuters"
	default:
		return "Unknown Source"
	}
}

// DetermineCategory infers a coarse category from title keywords.
func DetermineCategory(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "tech") || strings.Contains(lower, "ai"):
		return "technology"
	case strings.Contains(lower, "business") || strings.Contains(lower, "market"):
		return "economy"
	case strings.Contains(lower, "energy") || strings.Contains(lower, "oil"):
		return "energy"
	case strings.Contains(lower, "health"):
		return "health"
	default:
		return "general"
	}
}

func isAzerbaijani(url string) bool {
	return strings.Contains(url, "azertac") || strings.Contains(url, "trend.az")
}

func determineRegion(url string) string {
	if isAzerbaijani(url) {
		return "central-asia"
	}
	return "global"
}

func determineCountry(url string) string {
	if isAzerbaijani(url) {
		return "azerbaijan"
	}
	return "global"
}

var impactKeywords = []string{"historic", "breakthrough", "major", "critical"}

func determineImpact(title string) string {
	lower := strings.ToLower(title)
	for _, k := range impactKeywords {
		if strings.Contains(lower, k) {
			return "critical"
		}
	}
	return "high"
}

func detectLanguage(url string) string {
	if strings.Contains(url, "/en") {
		return "en"
	}
	if strings.Contains(url, "azertac.az") {
		return "az"
	}
	return "en"
}

// displayDate renders the calendar date of the article; unparseable dates
// are returned unchanged.
func displayDate(raw string) string {
	if t, ok := domain.ParsePublishedDate(raw); ok {
		return t.UTC().Format(time.DateOnly)
	}
	return raw
}

func generateInsight(title, summary string) string {
	s := []rune(summary)
	if len(s) > insightSummaryLen {
		s = s[:insightSummaryLen]
	}
	return fmt.Sprintf("AI Analysis: %s... This development shows significant implications for %s sector.",
		string(s), DetermineCategory(title))
}

func generateRootCause(title string) string {
	return fmt.Sprintf("Analysis suggests this %s development stems from recent market dynamics and strategic positioning.",
		DetermineCategory(title))
}

func defaultPredictions() map[string]Prediction {
	return map[string]Prediction{
		"3m":  {Trend: "up", Value: 15, Description: "Short-term positive trajectory expected"},
		"6m":  {Trend: "stable", Value: 10, Description: "Mid-term stabilization anticipated"},
		"12m": {Trend: "up", Value: 25, Description: "Long-term growth trajectory likely"},
	}
}

var indicatorKeywords = []string{"market", "economy", "technology", "energy", "policy"}

func extractKeywords(title, summary string) []string {
	text := strings.ToLower(title + " " + summary)
	out := make([]string, 0, len(indicatorKeywords))
	for _, k := range indicatorKeywords {
		if strings.Contains(text, k) {
			out = append(out, strings.ToUpper(k[:1])+k[1:])
		}
	}
	return out
}

func readTime(content string) int {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		n = defaultContentChars
	}
	return int(math.Ceil(float64(n) / charsPerMinute))
}
