package config

import (
	"fmt"
	"log/slog"
	"strings"

	"feedlinker/internal/opml"
	"feedlinker/internal/source"
	"feedlinker/internal/store"

	"github.com/caarlos0/env/v11"
)

const legacyOPMLTitle = "Telegram RSS Feeds"

type Config struct {
	Token          string  `env:"TOKEN"`
	AllowedUsers   []int64 `env:"ALLOWED_USERS"`
	StoreBackend   string  `env:"STORE_BACKEND"   envDefault:"json"`
	StorePath      string  `env:"STORE_PATH"`
	RSSHubBaseURL  string  `env:"RSSHUB_BASE_URL" envDefault:"https://rsshub.app"`
	OPMLTitle      string  `env:"OPML_TITLE"`
	ExportSchedule string  `env:"EXPORT_SCHEDULE"`
	ExportPath     string  `env:"EXPORT_PATH"     envDefault:"rssfeeds.opml"`
	LogLevel       string  `env:"LOG_LEVEL"       envDefault:"info"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Normalize()

	return cfg, nil
}

// Normalize fills the defaults that depend on other settings.
func (c *Config) Normalize() {
	c.Token = strings.TrimSpace(c.Token)
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = store.BackendJSON
	}

	c.StorePath = strings.TrimSpace(c.StorePath)
	if c.StorePath == "" {
		c.StorePath = store.DefaultPath(c.StoreBackend)
	}

	if strings.TrimSpace(c.RSSHubBaseURL) == "" {
		c.RSSHubBaseURL = source.DefaultBaseURL
	}

	c.OPMLTitle = strings.TrimSpace(c.OPMLTitle)
	if c.OPMLTitle == "" {
		c.OPMLTitle = opml.DefaultTitle
		if c.StoreBackend == store.BackendText {
			c.OPMLTitle = legacyOPMLTitle
		}
	}

	c.ExportSchedule = strings.TrimSpace(c.ExportSchedule)
	c.ExportPath = strings.TrimSpace(c.ExportPath)
	if c.ExportPath == "" {
		c.ExportPath = opml.FileName
	}
}

func (c Config) SlogLevel() (slog.Level, error) {
	raw := strings.TrimSpace(c.LogLevel)
	if raw == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}
