package store_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"feedlinker/internal/domain"
	"feedlinker/internal/source"
	"feedlinker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, backend string) store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), store.DefaultPath(backend))

	s, err := store.Open(context.Background(), backend, path, source.NewDeriver(""), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	return s
}

func backends() []string {
	return []string{store.BackendJSON, store.BackendText, store.BackendSQLite}
}

func TestLoadEmpty(t *testing.T) {
	for _, backend := range backends() {
		t.Run(backend, func(t *testing.T) {
			s := openStore(t, backend)

			records, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	record := source.Derive(domain.SourceTelegram, "bbcnews")

	for _, backend := range backends() {
		t.Run(backend, func(t *testing.T) {
			s := openStore(t, backend)

			added, err := s.Add(ctx, record)
			require.NoError(t, err)
			assert.True(t, added)

			added, err = s.Add(ctx, record)
			require.NoError(t, err)
			assert.False(t, added)

			records, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, record.XMLURL, records[0].XMLURL)
		})
	}
}

func TestAddConcurrent(t *testing.T) {
	ctx := context.Background()
	record := source.Derive(domain.SourceTelegram, "bbcnews")

	for _, backend := range backends() {
		t.Run(backend, func(t *testing.T) {
			s := openStore(t, backend)

			var added atomic.Int32
			var wg sync.WaitGroup

			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()

					ok, err := s.Add(ctx, record)
					assert.NoError(t, err)
					if ok {
						added.Add(1)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), added.Load())

			records, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, records, 1)
		})
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	deriver := source.NewDeriver("")

	for _, backend := range backends() {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), store.DefaultPath(backend))

			s, err := store.Open(ctx, backend, path, deriver, log)
			require.NoError(t, err)

			for _, name := range []string{"zeta", "alpha"} {
				_, err = s.Add(ctx, deriver.Telegram(name))
				require.NoError(t, err)
			}
			require.NoError(t, s.Close())

			s, err = store.Open(ctx, backend, path, deriver, log)
			require.NoError(t, err)
			defer func() { assert.NoError(t, s.Close()) }()

			records, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, 2)
		})
	}
}

func TestInsertionOrder(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{store.BackendJSON, store.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s := openStore(t, backend)

			want := []domain.Record{
				source.Derive(domain.SourceYouTube, "veritasium"),
				source.Derive(domain.SourceTelegram, "bbcnews"),
				source.Newsletter("https://example.substack.com"),
			}

			for _, r := range want {
				_, err := s.Add(ctx, r)
				require.NoError(t, err)
			}

			got, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestJSONStoreCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "feeds.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": "broken"`), 0o600))

	s := store.NewJSONStore(path, slog.New(slog.DiscardHandler))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, store.ErrCorrupt)

	_, err = s.Add(ctx, source.Derive(domain.SourceTelegram, "bbcnews"))
	require.ErrorIs(t, err, store.ErrCorrupt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"title": "broken"`, string(data))
}

func TestJSONStoreWhitespaceIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.json")
	require.NoError(t, os.WriteFile(path, []byte(" \n"), 0o600))

	records, err := store.NewJSONStore(path, slog.New(slog.DiscardHandler)).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJSONStoreFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "feeds.json")
	s := store.NewJSONStore(path, slog.New(slog.DiscardHandler))

	_, err := s.Add(ctx, source.Derive(domain.SourceTelegram, "bbcnews"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"title": "Telegram: bbcnews",
		"xmlUrl": "https://rsshub.app/telegram/channel/bbcnews",
		"htmlUrl": "https://t.me/bbcnews"
	}]`, string(data))
}

func TestTextStoreReadsLegacyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "canais.txt")
	require.NoError(t, os.WriteFile(path, []byte("bbcnews\n\n durov \nbbcnews\n"), 0o600))

	s := store.NewTextStore(path, nil, slog.New(slog.DiscardHandler))

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bbcnews", "durov"}, names)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{
		{Title: "bbcnews", XMLURL: "https://rsshub.app/telegram/channel/bbcnews"},
		{Title: "durov", XMLURL: "https://rsshub.app/telegram/channel/durov"},
	}, records)

	added, err := s.Add(ctx, source.Derive(domain.SourceTelegram, "durov"))
	require.NoError(t, err)
	assert.False(t, added)
}

func TestTextStoreRewritesSortedSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "canais.txt")
	s := store.NewTextStore(path, nil, slog.New(slog.DiscardHandler))

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.Add(ctx, source.Derive(domain.SourceTelegram, name))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nmid\nzeta\n", string(data))
}

func TestTextStoreRejects(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "canais.txt")
	s := store.NewTextStore(path, nil, slog.New(slog.DiscardHandler))

	_, err := s.Add(ctx, source.Derive(domain.SourceYouTube, "veritasium"))
	require.ErrorIs(t, err, store.ErrUnsupportedRecord)

	_, err = s.Add(ctx, source.Derive(domain.SourceTelegram, "bbc news"))
	require.ErrorIs(t, err, store.ErrInvalidName)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestValidChannelName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"bbcnews", true},
		{"Canal123", true},
		{"notícias", true},
		{"", false},
		{"bbc_news", false},
		{"bbc news", false},
		{"t.me/bbcnews", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.ValidChannelName(tt.name))
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := store.Open(context.Background(), "redis", "", nil, slog.New(slog.DiscardHandler))
	require.ErrorIs(t, err, store.ErrUnknownBackend)
}
