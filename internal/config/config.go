package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration of the service.
type Config struct {
	HTTP       HTTPConfig       `mapstructure:"http"`
	Scrape     ScrapeConfig     `mapstructure:"scrape"`
	Log        LogConfig        `mapstructure:"log"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Publishers PublishersConfig `mapstructure:"publishers"`
}

// HTTPConfig controls outbound scraping requests and the API listener.
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	ListenAddr string        `mapstructure:"listen_addr"`
}

// ScrapeConfig controls the aggregation run.
type ScrapeConfig struct {
	MaxArticles int      `mapstructure:"max_articles"`
	Sources     []string `mapstructure:"sources"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ArchiveConfig controls the snapshot archive. An empty path disables it.
type ArchiveConfig struct {
	Path         string `mapstructure:"path"`
	MaxSnapshots int    `mapstructure:"max_snapshots"`
}

// PublishersConfig points at the publishers definition file. An empty file
// disables publishing.
type PublishersConfig struct {
	File string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:    10 * time.Second,
			ListenAddr: ":8080",
		},
		Scrape: ScrapeConfig{
			MaxArticles: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Archive: ArchiveConfig{
			MaxSnapshots: 100,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and
// NEWSDESK_ prefixed environment variables, in increasing priority. A .env
// file in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("newsdesk")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsdesk"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Scrape.Sources = splitSources(cfg.Scrape.Sources)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.listen_addr", cfg.HTTP.ListenAddr)

	v.SetDefault("scrape.max_articles", cfg.Scrape.MaxArticles)
	v.SetDefault("scrape.sources", cfg.Scrape.Sources)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("archive.path", cfg.Archive.Path)
	v.SetDefault("archive.max_snapshots", cfg.Archive.MaxSnapshots)

	v.SetDefault("publishers.file", cfg.Publishers.File)
}

// splitSources accepts both list and comma-separated forms.
func splitSources(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Scrape.MaxArticles <= 0 {
		return fmt.Errorf("scrape.max_articles must be positive, got %d", c.Scrape.MaxArticles)
	}
	if c.Archive.MaxSnapshots < 0 {
		return fmt.Errorf("archive.max_snapshots must not be negative, got %d", c.Archive.MaxSnapshots)
	}
	return nil
}
