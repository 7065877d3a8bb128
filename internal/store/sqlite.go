package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"feedlinker/internal/domain"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Required by the library implementation.
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps records in a feeds table whose unique xml_url column
// enforces deduplication.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

func NewSQLiteStore(ctx context.Context, dbPath string, log *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open DB file: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema, err := migrateUp(db)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("migrate %s: %w", dbPath, err), db.Close())
	}

	log.InfoContext(ctx, "Store schema is ready",
		"backend", BackendSQLite,
		"path", dbPath,
		"schemaVersion", schema.version,
		"applied", schema.applied)

	return &SQLiteStore{db: db, path: dbPath, log: log}, nil
}

type schemaState struct {
	version uint
	// applied is false when the schema was already at the latest version.
	applied bool
}

// migrateUp brings the feeds schema to the latest embedded version. A schema
// left dirty by an interrupted migration is refused rather than forced.
func migrateUp(db *sql.DB) (schemaState, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return schemaState{}, fmt.Errorf("create DB driver: %w", err)
	}

	migrations, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return schemaState{}, fmt.Errorf("read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", migrations, "sqlite3", driver)
	if err != nil {
		return schemaState{}, fmt.Errorf("create migrator: %w", err)
	}

	before, err := schemaVersion(m)
	if err != nil {
		return schemaState{}, err
	}

	switch err = m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		return schemaState{version: before}, nil
	case err != nil:
		return schemaState{}, fmt.Errorf("apply migrations: %w", err)
	}

	after, err := schemaVersion(m)
	if err != nil {
		return schemaState{}, err
	}

	return schemaState{version: after, applied: after != before}, nil
}

// schemaVersion reports 0 for a database no migration has touched yet.
func schemaVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return 0, fmt.Errorf("%w: schema version %d is dirty", ErrCorrupt, version)
	}

	return version, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]domain.Record, error) {
	query := "select title, xml_url, html_url from feeds order by id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"dbPath", s.path,
				"operation", "Load")
		}
	}()

	records := []domain.Record{}
	for rows.Next() {
		var r domain.Record
		if err = rows.Scan(&r.Title, &r.XMLURL, &r.HTMLURL); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrCorrupt, err)
		}

		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Record, error) {
	return s.Load(ctx)
}

func (s *SQLiteStore) Add(ctx context.Context, record domain.Record) (bool, error) {
	xmlURL := strings.TrimSpace(record.XMLURL)
	if xmlURL == "" {
		return false, errors.New("feed URL is empty")
	}

	query := "insert or ignore into feeds (title, xml_url, html_url) values (?, ?, ?)"

	res, err := s.db.ExecContext(ctx, query, record.Title, xmlURL, record.HTMLURL)
	if err != nil {
		return false, fmt.Errorf("execute query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
