package service

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
)

// exifFields are the EXIF tags shown in the preview.
var exifFields = []string{
	"DateTime", "Model", "Make", "ExposureTime", "FNumber", "ISOSpeedRatings", "FocalLength",
}

// ImageInfo holds metadata about an image file.
type ImageInfo struct {
	Path     string
	Format   string
	Width    int
	Height   int
	Size     int64
	ModTime  time.Time
	EXIFData map[string]string
}

// EXIFKeys returns the EXIF field names present, sorted.
func (info *ImageInfo) EXIFKeys() []string {
	keys := make([]string, 0, len(info.EXIFData))
	for k := range info.EXIFData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ImageService provides image loading and metadata extraction.
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// GetEXIF extracts a few common EXIF fields. Files without EXIF data
// (anything but most JPEGs) yield an empty map and no error.
func (is *ImageService) GetEXIF(r io.Reader) map[string]string {
	result := make(map[string]string)
	x, err := exif.Decode(r)
	if err != nil {
		return result
	}
	for _, field := range exifFields {
		tag, err := x.Get(exif.FieldName(field))
		if err == nil && tag != nil {
			result[field] = tag.String()
		}
	}
	return result
}

// Decode opens and decodes the image at path.
func (is *ImageService) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// GetImageInfo returns dimensions, file size, mod time and EXIF data along
// with the decoded image.
func (is *ImageService) GetImageInfo(path string) (*ImageInfo, image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image for info: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	exifData := is.GetEXIF(f)

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to seek in image file: %w", err)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image for info: %w", err)
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Path:     path,
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
		EXIFData: exifData,
	}, img, nil
}
