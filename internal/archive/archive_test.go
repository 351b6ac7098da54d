package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/newsdesk/internal/domain"
)

func openTemp(t *testing.T, keep int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"), keep)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveListLatest(t *testing.T) {
	s := openTemp(t, 0)

	if _, err := s.Latest(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	base := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		snap := Snapshot{
			CapturedAt: base.Add(time.Duration(i) * time.Minute),
			Sources:    []string{"bbc"},
			Articles:   []domain.ScrapedArticle{{Title: "t", SourceURL: "https://www.bbc.com/news/1"}},
		}
		if err := s.Save(snap); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !latest.CapturedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("unexpected latest %s", latest.CapturedAt)
	}
	if len(latest.Articles) != 1 || latest.Articles[0].Title != "t" {
		t.Errorf("unexpected articles %+v", latest.Articles)
	}

	all, err := s.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || !all[0].CapturedAt.After(all[2].CapturedAt) {
		t.Fatalf("expected 3 snapshots newest first, got %d", len(all))
	}
}

func TestSavePrunesOldest(t *testing.T) {
	s := openTemp(t, 2)

	base := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	for i := range 4 {
		if err := s.Save(Snapshot{CapturedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := s.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 snapshots after pruning, got %d", len(all))
	}
	if !all[1].CapturedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("oldest kept snapshot should be #2, got %s", all[1].CapturedAt)
	}
}
