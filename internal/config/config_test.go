package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout %s", cfg.HTTP.Timeout)
	}
	if cfg.Scrape.MaxArticles != 20 {
		t.Errorf("unexpected max articles %d", cfg.Scrape.MaxArticles)
	}
	if cfg.HTTP.ListenAddr != ":8080" {
		t.Errorf("unexpected listen addr %q", cfg.HTTP.ListenAddr)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "newsdesk.yaml")
	data := []byte(`
http:
  timeout: 5s
scrape:
  max_articles: 10
  sources: ["BBC", "reuters"]
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWSDESK_HTTP_LISTEN_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Timeout != 5*time.Second || cfg.Scrape.MaxArticles != 10 || cfg.Log.Level != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTP.ListenAddr != ":9999" {
		t.Errorf("env override not applied: %q", cfg.HTTP.ListenAddr)
	}
	if len(cfg.Scrape.Sources) != 2 || cfg.Scrape.Sources[0] != "bbc" {
		t.Errorf("unexpected sources %v", cfg.Scrape.Sources)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Scrape.MaxArticles = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSplitSources(t *testing.T) {
	got := splitSources([]string{"azertac, Trend", " ", "bbc"})
	if len(got) != 3 || got[1] != "trend" {
		t.Fatalf("unexpected %v", got)
	}
}
