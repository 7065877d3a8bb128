package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode"

	"feedlinker/internal/domain"
	"feedlinker/internal/source"

	"github.com/google/renameio/v2"
	"github.com/samber/lo"
)

// TextStore is the legacy Telegram-only backend: one bare channel name per
// line, read back as a deduplicated sorted set.
type TextStore struct {
	path    string
	deriver *source.Deriver
	mu      sync.RWMutex
	log     *slog.Logger
}

func NewTextStore(path string, deriver *source.Deriver, log *slog.Logger) *TextStore {
	if deriver == nil {
		deriver = source.NewDeriver(source.DefaultBaseURL)
	}

	return &TextStore{path: path, deriver: deriver, log: log}
}

// Names returns the stored channel names in sorted order.
func (s *TextStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadNames()
}

func (s *TextStore) Load(ctx context.Context) ([]domain.Record, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(names, func(name string, _ int) domain.Record {
		return domain.Record{Title: name, XMLURL: s.deriver.TelegramFeedURL(name)}
	}), nil
}

func (s *TextStore) List(ctx context.Context) ([]domain.Record, error) {
	return s.Load(ctx)
}

func (s *TextStore) Add(ctx context.Context, record domain.Record) (bool, error) {
	name, ok := s.deriver.TelegramName(record.XMLURL)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedRecord, record.XMLURL)
	}

	if !ValidChannelName(name) {
		return false, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.loadNames()
	if err != nil {
		return false, err
	}

	if _, found := slices.BinarySearch(names, name); found {
		return false, nil
	}

	names = append(names, name)
	slices.Sort(names)

	var buf bytes.Buffer
	for _, n := range names {
		buf.WriteString(n)
		buf.WriteByte('\n')
	}

	if err = renameio.WriteFile(s.path, buf.Bytes(), filePerm); err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}

	s.log.DebugContext(ctx, "Channel is stored",
		"backend", BackendText,
		"path", s.path,
		"name", name,
		"count", len(names))

	return true, nil
}

func (s *TextStore) Close() error {
	return nil
}

func (s *TextStore) loadNames() ([]string, error) {
	data, ok, err := readSnapshot(s.path)
	if err != nil {
		return nil, err
	}

	if !ok {
		return []string{}, nil
	}

	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	names = lo.Uniq(names)
	slices.Sort(names)

	return names, nil
}

// ValidChannelName accepts non-empty names made only of letters and digits.
func ValidChannelName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
