package ui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLogPaging(t *testing.T) {
	test.NewTempApp(t)
	label := widget.NewLabel("")
	older := widget.NewButton("older", nil)
	newer := widget.NewButton("newer", nil)
	sl := NewStatusLog(label, older, newer, 3)
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	sl.now = func() time.Time { return at }

	assert.Equal(t, "", label.Text)
	assert.True(t, older.Disabled())
	assert.True(t, newer.Disabled())

	for i := 1; i <= 4; i++ {
		sl.Add(zerolog.InfoLevel, fmt.Sprintf("msg %d", i))
	}
	entries := sl.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "msg 2", entries[0].Text)
	assert.Equal(t, "[3/3] 09:30:00 msg 4", label.Text)
	assert.False(t, older.Disabled())
	assert.True(t, newer.Disabled())

	sl.Older()
	sl.Older()
	sl.Older()
	assert.Equal(t, "[1/3] 09:30:00 msg 2", label.Text)
	assert.True(t, older.Disabled())

	sl.Newer()
	assert.Equal(t, "[2/3] 09:30:00 msg 3", label.Text)
	assert.False(t, newer.Disabled())
}

func TestStatusLogLevels(t *testing.T) {
	test.NewTempApp(t)
	label := widget.NewLabel("")
	sl := NewStatusLog(label, nil, nil, 0)
	sl.now = func() time.Time { return time.Date(2024, 5, 1, 18, 0, 5, 0, time.UTC) }

	sl.Add(zerolog.ErrorLevel, "Removing image failed")
	assert.Equal(t, "[1/1] 18:00:05 error: Removing image failed", label.Text)
	assert.Equal(t, widget.DangerImportance, label.Importance)

	sl.Add(zerolog.WarnLevel, "Skipped notes.txt")
	assert.Equal(t, widget.WarningImportance, label.Importance)

	sl.Add(zerolog.InfoLevel, "Added 1 image(s)")
	assert.Equal(t, widget.MediumImportance, label.Importance)

	entry, ok := sl.Current()
	require.True(t, ok)
	assert.Equal(t, zerolog.InfoLevel, entry.Level)
}

func TestFitLayoutCentresImage(t *testing.T) {
	l := &fitLayout{}
	obj := canvas.NewRectangle(color.Transparent)

	l.setImageSize(fyne.NewSize(800, 400))
	l.Layout([]fyne.CanvasObject{obj}, fyne.NewSize(400, 400))
	assert.Equal(t, fyne.NewSize(400, 200), obj.Size())
	assert.Equal(t, fyne.NewPos(0, 100), obj.Position())

	// Resizing the viewport re-fits the same image.
	l.Layout([]fyne.CanvasObject{obj}, fyne.NewSize(1000, 300))
	assert.Equal(t, fyne.NewSize(600, 300), obj.Size())
	assert.Equal(t, fyne.NewPos(200, 0), obj.Position())

	l.setImageSize(fyne.Size{})
	l.Layout([]fyne.CanvasObject{obj}, fyne.NewSize(400, 400))
	assert.Equal(t, fyne.NewSize(0, 0), obj.Size())
}

func TestGalleryThemePrimary(t *testing.T) {
	th := NewGalleryTheme(theme.DefaultTheme())
	assert.Equal(t, primaryColor, th.Color(theme.ColorNamePrimary, theme.VariantLight))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark),
		th.Color(theme.ColorNameBackground, theme.VariantDark))
}

type failingDecoder struct{}

func (failingDecoder) Decode(string) (image.Image, error) {
	return nil, errors.New("not an image")
}

func TestThumbnailDecodeFailureCachesBrokenIcon(t *testing.T) {
	test.NewTempApp(t)
	var mu sync.Mutex
	var logged []string
	tm := NewThumbnailManager(failingDecoder{}, func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		logged = append(logged, msg)
	})

	done := make(chan fyne.Resource, 1)
	first := tm.GetThumbnail("/pics/bad.png", func(res fyne.Resource) { done <- res })
	assert.Equal(t, theme.FileImageIcon(), first)

	select {
	case res := <-done:
		assert.Equal(t, theme.BrokenImageIcon(), res)
	case <-time.After(5 * time.Second):
		t.Fatal("thumbnail generation did not complete")
	}
	assert.Equal(t, theme.BrokenImageIcon(), tm.GetThumbnail("/pics/bad.png", nil))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, logged, 1)
	assert.True(t, strings.Contains(logged[0], "bad.png"))
}
