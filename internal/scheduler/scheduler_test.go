package scheduler_test

import (
	"context"
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"feedlinker/internal/registry"
	"feedlinker/internal/scheduler"
	"feedlinker/internal/source"
	"feedlinker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	s := store.NewJSONStore(filepath.Join(t.TempDir(), "feeds.json"), log)

	return registry.New(s, source.NewDeriver(""), "Snapshot", log)
}

func TestWriteSnapshot(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)

	for _, text := range []string{"@bbcnews", "https://www.youtube.com/@veritasium"} {
		_, err := reg.AddText(ctx, text)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "rssfeeds.opml")
	s := scheduler.New(ctx, reg, "@hourly", path, slog.New(slog.DiscardHandler))

	count, err := s.WriteSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Title    string `xml:"head>title"`
		Outlines []struct {
			XMLURL string `xml:"xmlUrl,attr"`
		} `xml:"body>outline"`
	}
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, "Snapshot", doc.Title)
	require.Len(t, doc.Outlines, 2)
	assert.Equal(t, "https://rsshub.app/telegram/channel/bbcnews", doc.Outlines[0].XMLURL)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := scheduler.New(context.Background(), newRegistry(t), "every now and then", "unused.opml", slog.New(slog.DiscardHandler))

	require.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := scheduler.New(context.Background(), newRegistry(t), "0 * * * *", "unused.opml", slog.New(slog.DiscardHandler))

	require.NoError(t, s.Start())
	s.Stop()
}
