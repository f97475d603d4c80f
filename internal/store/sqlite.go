package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL
);
`

const (
	insertImageQuery = `INSERT INTO images (path) VALUES (?)`
	listImagesQuery  = `SELECT id, path FROM images ORDER BY id ASC`
	getImageQuery    = `SELECT id, path FROM images WHERE id = ?`
	deleteImageQuery = `DELETE FROM images WHERE id = ?`
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps records in a single SQLite table.
type SQLiteStore struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the database at dsn and ensures the
// images table exists. Use ":memory:" for a throwaway database.
func NewSQLiteStore(dsn string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open image database %s: %w", dsn, err)
	}
	// ":memory:" databases are per connection, so keep exactly one.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping image database %s: %w", dsn, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create images table: %w", err)
	}

	logger.Debug().Str("dsn", dsn).Msg("Using SQLite image database")
	return &SQLiteStore{db: db, logger: logger}, nil
}

func withPragmas(dsn string) string {
	if dsn == ":memory:" {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// Insert implements Store.
func (s *SQLiteStore) Insert(ctx context.Context, path string) (ImageRecord, error) {
	if path == "" {
		return ImageRecord{}, ErrEmptyPath
	}
	res, err := s.db.ExecContext(ctx, insertImageQuery, path)
	if err != nil {
		return ImageRecord{}, fmt.Errorf("failed to insert image %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ImageRecord{}, fmt.Errorf("failed to read id of inserted image %s: %w", path, err)
	}
	s.logger.Debug().Int64("id", id).Str("path", path).Msg("Inserted image")
	return ImageRecord{ID: id, Path: path}, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]ImageRecord, error) {
	records := []ImageRecord{}
	if err := s.db.SelectContext(ctx, &records, listImagesQuery); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return records, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (ImageRecord, error) {
	var rec ImageRecord
	err := s.db.GetContext(ctx, &rec, getImageQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ImageRecord{}, fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ImageRecord{}, fmt.Errorf("failed to get image %d: %w", id, err)
	}
	return rec, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, deleteImageQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.logger.Debug().Int64("id", id).Msg("Delete matched no image")
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
