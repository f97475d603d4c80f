// Package store persists gallery image records. Two engines implement the
// same Store contract: SQLite (the default) and bbolt.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"fygallery/internal/config"
)

const (
	sqliteFileName = "images.db"
	boltFileName   = "images.bolt"
)

var (
	// ErrNotFound is returned by Get when no record has the requested id.
	ErrNotFound = errors.New("image record not found")
	// ErrEmptyPath is returned by Insert for an empty path.
	ErrEmptyPath = errors.New("image path cannot be empty")
)

// ImageRecord is one persisted image path. ID is assigned by the store on
// insert and grows with every insert; ids of deleted records are not reused.
type ImageRecord struct {
	ID   int64  `db:"id" json:"id"`
	Path string `db:"path" json:"path"`
}

// Store is the image-path table.
type Store interface {
	// Insert adds a record for path. Duplicate paths produce duplicate
	// records and the path is not checked for existence.
	Insert(ctx context.Context, path string) (ImageRecord, error)
	// List returns every record ordered by id ascending.
	List(ctx context.Context) ([]ImageRecord, error)
	// Get returns the record with the given id or ErrNotFound.
	Get(ctx context.Context, id int64) (ImageRecord, error)
	// Delete removes the record with the given id. Deleting an id that does
	// not exist is not an error.
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Open creates or opens the store selected by cfg.Driver. An empty cfg.Path
// resolves to a file in the user config directory.
func Open(cfg config.StoreConfig, logger zerolog.Logger) (Store, error) {
	path, err := ResolvePath(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return NewSQLiteStore(path, logger)
	case config.DriverBolt:
		return NewBoltStore(path, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ResolvePath returns the database file Open will use for cfg, creating the
// default directory when cfg.Path is empty.
func ResolvePath(cfg config.StoreConfig) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	dir, err := config.Dir()
	if err != nil {
		// No config dir (e.g. $HOME unset): use the working directory.
		dir = "."
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	name := sqliteFileName
	if cfg.Driver == config.DriverBolt {
		name = boltFileName
	}
	return filepath.Join(dir, name), nil
}
