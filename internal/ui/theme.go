package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// primaryColor is the deep blue used for buttons and highlights.
var primaryColor = color.NRGBA{R: 0x0a, G: 0x3d, B: 0x8f, A: 0xff}

// galleryTheme wraps an existing theme and replaces its primary colour.
type galleryTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*galleryTheme)(nil)

// Color overrides the primary colour and delegates everything else.
func (t *galleryTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return primaryColor
	}
	return t.Theme.Color(name, variant)
}

// NewGalleryTheme creates the application theme on top of baseTheme.
func NewGalleryTheme(baseTheme fyne.Theme) fyne.Theme {
	return &galleryTheme{Theme: baseTheme}
}
