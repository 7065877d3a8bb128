package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"feedlinker/internal/domain"
	"feedlinker/internal/opml"
	"feedlinker/internal/source"
	"feedlinker/internal/store"

	"github.com/google/renameio/v2"
)

const exportPerm = 0o644

var (
	ErrMissingArgument = errors.New("argument is missing")
	// ErrEmptyIdentifier is returned when an argument was given but nothing
	// usable was left after extraction, e.g. "@" or "https://".
	ErrEmptyIdentifier = fmt.Errorf("identifier is empty: %w", ErrMissingArgument)
)

type Outcome int

const (
	// Added means the record was not known and is now persisted.
	Added Outcome = iota
	// Duplicate means a record with the same XMLURL was already stored.
	Duplicate
	// NotStored means the record was derived but the store does not keep
	// records of its source.
	NotStored
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Duplicate:
		return "duplicate"
	case NotStored:
		return "not_stored"
	default:
		return "unknown"
	}
}

type Result struct {
	Source  domain.Source
	Record  domain.Record
	Outcome Outcome
}

// Registry is the single owner of a feed store. Front-ends share one
// Registry and never touch the store directly.
type Registry struct {
	store     store.Store
	deriver   *source.Deriver
	opmlTitle string
	log       *slog.Logger
}

func New(s store.Store, deriver *source.Deriver, opmlTitle string, log *slog.Logger) *Registry {
	if deriver == nil {
		deriver = source.NewDeriver(source.DefaultBaseURL)
	}

	return &Registry{
		store:     s,
		deriver:   deriver,
		opmlTitle: opmlTitle,
		log:       log,
	}
}

// AddText classifies free text and stores the derived record.
func (r *Registry) AddText(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrMissingArgument
	}

	src, id := source.Classify(text)

	return r.add(ctx, src, id, r.deriver.Derive(src, id))
}

func (r *Registry) AddYouTube(ctx context.Context, arg string) (Result, error) {
	if strings.TrimSpace(arg) == "" {
		return Result{}, ErrMissingArgument
	}

	id := source.YouTubeChannelID(arg)

	return r.add(ctx, domain.SourceYouTubeChannel, id, r.deriver.Derive(domain.SourceYouTubeChannel, id))
}

func (r *Registry) AddThreads(ctx context.Context, arg string) (Result, error) {
	if strings.TrimSpace(arg) == "" {
		return Result{}, ErrMissingArgument
	}

	id := source.ThreadsUsername(arg)

	return r.add(ctx, domain.SourceThreadsProfile, id, r.deriver.Derive(domain.SourceThreadsProfile, id))
}

func (r *Registry) AddNewsletter(ctx context.Context, arg string) (Result, error) {
	if strings.TrimSpace(arg) == "" {
		return Result{}, ErrMissingArgument
	}

	id := source.NewsletterSubdomain(arg)

	return r.add(ctx, domain.SourceNewsletter, id, r.deriver.Derive(domain.SourceNewsletter, id))
}

func (r *Registry) List(ctx context.Context) ([]domain.Record, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list store: %w", err)
	}

	return records, nil
}

// Export renders the current snapshot as OPML. It returns the number of
// exported records alongside the document.
func (r *Registry) Export(ctx context.Context) ([]byte, int, error) {
	records, err := r.store.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load store: %w", err)
	}

	doc, err := opml.Export(r.opmlTitle, records)
	if err != nil {
		return nil, 0, fmt.Errorf("export opml: %w", err)
	}

	return doc, len(records), nil
}

// ExportFile atomically replaces path with the current OPML export.
func (r *Registry) ExportFile(ctx context.Context, path string) (int, error) {
	doc, count, err := r.Export(ctx)
	if err != nil {
		return 0, err
	}

	if err = renameio.WriteFile(path, doc, exportPerm); err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}

	return count, nil
}

func (r *Registry) Close() error {
	return r.store.Close()
}

// add stores the record derived from id. Stores that only keep some sources
// still get the derived link back, just not persisted.
func (r *Registry) add(
	ctx context.Context,
	src domain.Source,
	id string,
	record domain.Record,
) (Result, error) {
	if strings.TrimSpace(id) == "" {
		r.log.DebugContext(ctx, "Identifier is empty", "source", src.String())
		return Result{}, ErrEmptyIdentifier
	}

	result := Result{Source: src, Record: record}

	added, err := r.store.Add(ctx, record)
	if err != nil {
		if errors.Is(err, store.ErrUnsupportedRecord) {
			r.log.DebugContext(ctx, "Store does not keep this source",
				"source", src.String(),
				"xmlURL", record.XMLURL)

			result.Outcome = NotStored
			return result, nil
		}

		return result, fmt.Errorf("add to store: %w", err)
	}

	if added {
		result.Outcome = Added
	} else {
		result.Outcome = Duplicate
	}

	r.log.InfoContext(ctx, "Feed is registered",
		"source", src.String(),
		"xmlURL", record.XMLURL,
		"outcome", result.Outcome.String())

	return result, nil
}
