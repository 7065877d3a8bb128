package config_test

import (
	"log/slog"
	"testing"

	"feedlinker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TOKEN", "ALLOWED_USERS", "STORE_BACKEND", "STORE_PATH", "OPML_TITLE", "EXPORT_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.StoreBackend)
	assert.Equal(t, "feeds.json", cfg.StorePath)
	assert.Equal(t, "https://rsshub.app", cfg.RSSHubBaseURL)
	assert.Equal(t, "RSS Feeds", cfg.OPMLTitle)
	assert.Equal(t, "rssfeeds.opml", cfg.ExportPath)
	assert.Empty(t, cfg.ExportSchedule)
	assert.Empty(t, cfg.AllowedUsers)
}

func TestLoadLegacyTextBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "TEXT")
	t.Setenv("STORE_PATH", "")
	t.Setenv("OPML_TITLE", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.StoreBackend)
	assert.Equal(t, "canais.txt", cfg.StorePath)
	assert.Equal(t, "Telegram RSS Feeds", cfg.OPMLTitle)
}

func TestLoadAllowedUsers(t *testing.T) {
	t.Setenv("TOKEN", " secret ")
	t.Setenv("ALLOWED_USERS", "1,-200,300")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, []int64{1, -200, 300}, cfg.AllowedUsers)
}

func TestLoadInvalidAllowedUsers(t *testing.T) {
	t.Setenv("ALLOWED_USERS", "1,abc")

	_, err := config.Load()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	level, err := config.Config{LogLevel: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = config.Config{LogLevel: "WARN"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = config.Config{LogLevel: "loud"}.SlogLevel()
	require.Error(t, err)
}
