package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"feedlinker/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/renameio/v2"
)

// JSONStore persists records as an ordered JSON array. Every successful Add
// replaces the whole file.
type JSONStore struct {
	path string
	mu   sync.RWMutex
	log  *slog.Logger
}

func NewJSONStore(path string, log *slog.Logger) *JSONStore {
	return &JSONStore{path: path, log: log}
}

func (s *JSONStore) Load(ctx context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load(ctx)
}

func (s *JSONStore) List(ctx context.Context) ([]domain.Record, error) {
	return s.Load(ctx)
}

func (s *JSONStore) Add(ctx context.Context, record domain.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	if slices.ContainsFunc(records, func(r domain.Record) bool { return r.XMLURL == record.XMLURL }) {
		return false, nil
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal records: %w", err)
	}

	if err = renameio.WriteFile(s.path, data, filePerm); err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}

	s.log.DebugContext(ctx, "Feed is stored",
		"backend", BackendJSON,
		"path", s.path,
		"xmlURL", record.XMLURL,
		"count", len(records))

	return true, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) load(ctx context.Context) ([]domain.Record, error) {
	data, ok, err := readSnapshot(s.path)
	if err != nil {
		return nil, err
	}

	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []domain.Record{}, nil
	}

	var records []domain.Record
	if err = json.Unmarshal(data, &records); err != nil {
		s.log.ErrorContext(ctx, "Failed to decode stored feeds",
			"error", err,
			"backend", BackendJSON,
			"path", s.path)

		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}

	if records == nil {
		records = []domain.Record{}
	}

	return records, nil
}
