package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"feedlinker/internal/domain"
	"feedlinker/internal/source"
)

const (
	BackendJSON   = "json"
	BackendText   = "text"
	BackendSQLite = "sqlite"

	filePerm = 0o644
)

var (
	ErrCorrupt           = errors.New("stored feeds are corrupt")
	ErrUnsupportedRecord = errors.New("record is not supported by store")
	ErrInvalidName       = errors.New("invalid channel name")
	ErrUnknownBackend    = errors.New("unknown store backend")
)

// Store keeps feed records unique by XMLURL. Implementations are safe for
// concurrent use.
type Store interface {
	// Load returns the full persisted snapshot. Missing storage is empty.
	Load(ctx context.Context) ([]domain.Record, error)
	// Add reports false without writing when the XMLURL is already stored.
	Add(ctx context.Context, record domain.Record) (bool, error)
	List(ctx context.Context) ([]domain.Record, error)
	Close() error
}

func DefaultPath(backend string) string {
	switch backend {
	case BackendText:
		return "canais.txt"
	case BackendSQLite:
		return "feeds.sqlite"
	default:
		return "feeds.json"
	}
}

func Open(
	ctx context.Context,
	backend string,
	path string,
	deriver *source.Deriver,
	log *slog.Logger,
) (Store, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = BackendJSON
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath(backend)
	}

	switch backend {
	case BackendJSON:
		return NewJSONStore(path, log), nil
	case BackendText:
		return NewTextStore(path, deriver, log), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func readSnapshot(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}

	return data, true, nil
}
