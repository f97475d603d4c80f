// Package scan finds image files in a directory and its subdirectories.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultExtensions are the file types the gallery's file picker offers.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// FileItem is an image file found by a scan.
type FileItem struct {
	Path string
	Info os.FileInfo
}

// FileItems is a slice of FileItem
type FileItems []FileItem

// NewFileItem creates a new FileItem
func NewFileItem(p string, info os.FileInfo) FileItem {
	return FileItem{
		Path: p,
		Info: info,
	}
}

// FileScanner walks directory trees for images with the configured extensions.
type FileScanner struct {
	extensions map[string]bool
}

// NewFileScanner returns a scanner accepting the given extensions
// (case-insensitive, with leading dot). No extensions means DefaultExtensions.
func NewFileScanner(extensions ...string) *FileScanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	m := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m[ext] = true
	}
	return &FileScanner{extensions: m}
}

// IsImage reports whether name has one of the scanner's extensions.
func (s *FileScanner) IsImage(name string) bool {
	return s.extensions[strings.ToLower(filepath.Ext(name))]
}

// Extensions returns the accepted extensions with their leading dot, in the
// form file-picker filters expect.
func (s *FileScanner) Extensions() []string {
	out := make([]string, 0, len(s.extensions))
	for ext := range s.extensions {
		out = append(out, ext)
	}
	return out
}

// Run walks dir in a goroutine and sends every non-empty image file on the
// returned channel, which is closed when the walk ends. Paths are absolute.
// Unreadable entries are logged and skipped.
func (s *FileScanner) Run(dir string, logger zerolog.Logger) <-chan FileItem {
	out := make(chan FileItem)
	go func() {
		defer close(out)
		root, err := filepath.Abs(dir)
		if err != nil {
			logger.Error().Err(err).Str("dir", dir).Msg("Cannot resolve scan directory")
			return
		}
		count := 0
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn().Err(err).Str("path", p).Msg("Skipping unreadable entry")
				if d != nil && d.IsDir() && p != root {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !s.IsImage(p) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				logger.Warn().Err(err).Str("path", p).Msg("Skipping file without info")
				return nil
			}
			if !info.Mode().IsRegular() || info.Size() == 0 {
				return nil
			}
			out <- NewFileItem(p, info)
			count++
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Str("dir", root).Msg("Scan aborted")
		}
		logger.Debug().Int("count", count).Str("dir", root).Msg("Scan finished")
	}()
	return out
}
