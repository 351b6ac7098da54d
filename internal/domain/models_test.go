package domain

import (
	"testing"
	"time"
)

func TestParsePublishedDate(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2025-03-14T10:00:00Z", time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), true},
		{"Fri, 14 Mar 2025 10:00:00 +0000", time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), true},
		{"14.03.2025 10:00", time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), true},
		{"14 March 2025 10:00", time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), true},
		{"March 14, 2025", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"  2025-03-14  ", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"2 hours ago", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tc := range cases {
		got, ok := ParsePublishedDate(tc.raw)
		if ok != tc.ok {
			t.Errorf("ParsePublishedDate(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(tc.want) {
			t.Errorf("ParsePublishedDate(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFormatPublishedDate(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	if got := FormatPublishedDate("", now); got != "2025-03-14T09:00:00Z" {
		t.Errorf("empty date should fall back to now, got %q", got)
	}
	if got := FormatPublishedDate("2025-03-14T12:00:00+04:00", now); got != "2025-03-14T08:00:00Z" {
		t.Errorf("expected UTC normalization, got %q", got)
	}
	if got := FormatPublishedDate("yesterday", now); got != "yesterday" {
		t.Errorf("unparseable date should be kept, got %q", got)
	}
}
