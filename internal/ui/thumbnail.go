package ui

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/nfnt/resize"
)

const (
	// ThumbnailWidth is the width of the thumbnails in the gallery list.
	ThumbnailWidth = 100
	// ThumbnailHeight is the height of the thumbnails in the gallery list.
	ThumbnailHeight = 100
)

// ImageDecoder loads an image from disk.
type ImageDecoder interface {
	Decode(path string) (image.Image, error)
}

// ThumbnailManager handles generation and caching of image thumbnails.
type ThumbnailManager struct {
	cache      map[string]fyne.Resource
	pending    map[string]bool
	cacheMutex sync.Mutex
	decoder    ImageDecoder
	logf       func(string)
}

// NewThumbnailManager creates a new thumbnail manager. logf receives
// user-facing error messages and may be called from any goroutine.
func NewThumbnailManager(decoder ImageDecoder, logf func(string)) *ThumbnailManager {
	return &ThumbnailManager{
		cache:   make(map[string]fyne.Resource),
		pending: make(map[string]bool),
		decoder: decoder,
		logf:    logf,
	}
}

// imageToBytes is a helper to convert image.Image to []byte for Fyne resources.
func imageToBytes(img image.Image) []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// Thumbnail decodes path and shrinks it to fit ThumbnailWidth x ThumbnailHeight.
func (tm *ThumbnailManager) Thumbnail(path string) (fyne.Resource, error) {
	img, err := tm.decoder.Decode(path)
	if err != nil {
		return nil, err
	}
	thumb := resize.Thumbnail(ThumbnailWidth, ThumbnailHeight, img, resize.Lanczos3)
	return fyne.NewStaticResource(filepath.Base(path), imageToBytes(thumb)), nil
}

// GetThumbnail returns the cached thumbnail for path. On a miss it returns a
// placeholder and generates the thumbnail in the background, calling
// onComplete on the main thread once it is cached. Files that fail to decode
// are cached as the broken-image icon and the failure is logged.
func (tm *ThumbnailManager) GetThumbnail(path string, onComplete func(fyne.Resource)) fyne.Resource {
	tm.cacheMutex.Lock()
	if res, ok := tm.cache[path]; ok {
		tm.cacheMutex.Unlock()
		return res
	}
	if tm.pending[path] {
		tm.cacheMutex.Unlock()
		return theme.FileImageIcon()
	}
	tm.pending[path] = true
	tm.cacheMutex.Unlock()

	go func() {
		res, err := tm.Thumbnail(path)
		if err != nil {
			res = theme.BrokenImageIcon()
			if tm.logf != nil {
				tm.logf("Thumbnail error for " + filepath.Base(path) + ": " + err.Error())
			}
		}

		tm.cacheMutex.Lock()
		tm.cache[path] = res
		delete(tm.pending, path)
		tm.cacheMutex.Unlock()

		if onComplete != nil {
			fyne.Do(func() {
				onComplete(res)
			})
		}
	}()

	return theme.FileImageIcon()
}
