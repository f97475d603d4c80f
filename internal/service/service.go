// Package service holds the gallery logic that sits between the UI and the
// image store.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"fygallery/internal/scan"
	"fygallery/internal/store"
)

// ErrEmptyGallery is returned by SlideshowRecords when there is nothing to show.
var ErrEmptyGallery = errors.New("gallery is empty")

// ImageStore abstracts the image store for easier testing and decoupling.
type ImageStore interface {
	Insert(ctx context.Context, path string) (store.ImageRecord, error)
	List(ctx context.Context) ([]store.ImageRecord, error)
	Get(ctx context.Context, id int64) (store.ImageRecord, error)
	Delete(ctx context.Context, id int64) error
}

// FileScanner abstracts file scanning.
type FileScanner interface {
	Run(dir string, logger zerolog.Logger) <-chan scan.FileItem
}

// Gallery is the main entry point for gallery operations.
type Gallery struct {
	Store    ImageStore
	FileScan FileScanner
	Logger   zerolog.Logger
}

// NewGallery constructs a new Gallery.
func NewGallery(s ImageStore, fileScan FileScanner, logger zerolog.Logger) *Gallery {
	return &Gallery{
		Store:    s,
		FileScan: fileScan,
		Logger:   logger,
	}
}

// AddImages inserts a record for each path, in order, and stops at the first
// failure. It returns how many were inserted.
func (g *Gallery) AddImages(ctx context.Context, paths []string) (int, error) {
	added := 0
	for _, p := range paths {
		rec, err := g.Store.Insert(ctx, p)
		if err != nil {
			return added, fmt.Errorf("failed to add %s: %w", p, err)
		}
		g.Logger.Info().Int64("id", rec.ID).Str("path", rec.Path).Msg("Image added")
		added++
	}
	return added, nil
}

// Records returns every record in id order.
func (g *Gallery) Records(ctx context.Context) ([]store.ImageRecord, error) {
	return g.Store.List(ctx)
}

// Record returns the record with the given id.
func (g *Gallery) Record(ctx context.Context, id int64) (store.ImageRecord, error) {
	return g.Store.Get(ctx, id)
}

// Remove deletes the record with the given id. Unknown ids are ignored.
func (g *Gallery) Remove(ctx context.Context, id int64) error {
	if err := g.Store.Delete(ctx, id); err != nil {
		return err
	}
	g.Logger.Info().Int64("id", id).Msg("Image removed")
	return nil
}

// SlideshowRecords returns the records to cycle through, or ErrEmptyGallery.
func (g *Gallery) SlideshowRecords(ctx context.Context) ([]store.ImageRecord, error) {
	records, err := g.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyGallery
	}
	return records, nil
}

// ImportDirectory adds every image found under dir (recursively).
// Insert failures for single files are logged and skipped; the returned error
// is the first of them.
func (g *Gallery) ImportDirectory(ctx context.Context, dir string) (added int, err error) {
	if dir == "" {
		return 0, errors.New("directory required")
	}
	items := g.FileScan.Run(dir, g.Logger.With().Str("scan", dir).Logger())
	for item := range items {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Drain so the scanner goroutine can finish.
			for range items {
			}
			return added, ctxErr
		}
		if _, insErr := g.Store.Insert(ctx, item.Path); insErr != nil {
			g.Logger.Error().Err(insErr).Str("path", item.Path).Msg("Failed to import image")
			if err == nil {
				err = fmt.Errorf("failed to import %s: %w", item.Path, insErr)
			}
			continue
		}
		added++
	}
	g.Logger.Info().Int("count", added).Str("dir", dir).Msg("Directory imported")
	return added, err
}

// CleanMissing removes records whose file no longer exists on disk.
func (g *Gallery) CleanMissing(ctx context.Context) (removed int, err error) {
	records, err := g.Store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list images: %w", err)
	}
	for _, rec := range records {
		if _, statErr := os.Stat(rec.Path); !os.IsNotExist(statErr) {
			continue
		}
		if err := g.Store.Delete(ctx, rec.ID); err != nil {
			g.Logger.Error().Err(err).Int64("id", rec.ID).Str("path", rec.Path).Msg("Error removing record for missing file")
			continue
		}
		removed++
	}
	return removed, nil
}

// Filter returns the records whose file name fuzzily matches term,
// case-insensitively, keeping their order. A blank term matches everything.
func Filter(records []store.ImageRecord, term string) []store.ImageRecord {
	term = strings.TrimSpace(term)
	if term == "" {
		return records
	}
	out := make([]store.ImageRecord, 0, len(records))
	for _, rec := range records {
		if fuzzy.MatchFold(term, filepath.Base(rec.Path)) {
			out = append(out, rec)
		}
	}
	return out
}
