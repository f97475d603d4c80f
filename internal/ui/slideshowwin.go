package ui

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"fygallery/internal/slideshow"
	"fygallery/internal/store"
)

// fitLayout centres its objects at the largest size that fits the container
// while keeping the aspect ratio of the current image. It is laid out again
// on every resize, so the image always fills the viewport.
type fitLayout struct {
	mu      sync.Mutex
	imgSize fyne.Size
}

func (l *fitLayout) setImageSize(size fyne.Size) {
	l.mu.Lock()
	l.imgSize = size
	l.mu.Unlock()
}

// Layout implements fyne.Layout.
func (l *fitLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	l.mu.Lock()
	img := l.imgSize
	l.mu.Unlock()

	w, h := slideshow.FitSize(img.Width, img.Height, size.Width, size.Height)
	pos := fyne.NewPos((size.Width-w)/2, (size.Height-h)/2)
	for _, o := range objects {
		o.Resize(fyne.NewSize(w, h))
		o.Move(pos)
	}
}

// MinSize implements fyne.Layout.
func (l *fitLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(1, 1)
}

// slideshowWindow is the full-screen window driven by a slideshow.Cycler.
type slideshowWindow struct {
	app    *App
	win    fyne.Window
	cycler *slideshow.Cycler

	layout  *fitLayout
	picture *canvas.Image
	stage   *fyne.Container
	caption *widget.Label

	closeOnce sync.Once
}

func newSlideshowWindow(a *App, records []store.ImageRecord) (*slideshowWindow, error) {
	cycler, err := slideshow.NewCycler(records, a.cfg.Slideshow.Interval, a.cfg.Slideshow.Shuffle,
		slideshow.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	sw := &slideshowWindow{
		app:     a,
		win:     a.app.NewWindow(windowTitle),
		cycler:  cycler,
		layout:  &fitLayout{},
		picture: &canvas.Image{FillMode: canvas.ImageFillStretch, ScaleMode: canvas.ImageScaleSmooth},
		caption: widget.NewLabel(""),
	}
	sw.stage = container.New(sw.layout, sw.picture)

	background := canvas.NewRectangle(color.Black)
	sw.win.SetContent(container.NewBorder(nil, statusRow(sw.caption), nil, nil,
		container.NewStack(background, sw.stage)))
	sw.win.SetPadded(false)
	sw.win.SetFullScreen(true)
	sw.win.SetCloseIntercept(sw.close)
	sw.buildKeyboardShortcuts()
	return sw, nil
}

func (sw *slideshowWindow) show() {
	sw.win.Show()
	sw.cycler.Start(sw.onShow)
}

// onShow decodes the record off the main thread and swaps it in. Frames that
// arrive after the cycler has moved on are dropped.
func (sw *slideshowWindow) onShow(rec store.ImageRecord, index int) {
	go func() {
		img, err := sw.app.ImageService.Decode(rec.Path)
		fyne.Do(func() {
			if sw.cycler.Index() != index {
				return
			}
			sw.display(rec, index, img, err)
		})
	}()
}

func (sw *slideshowWindow) display(rec store.ImageRecord, index int, img image.Image, err error) {
	name := filepath.Base(rec.Path)
	state := ""
	if sw.cycler.IsPaused() {
		state = "  (paused)"
	}
	if err != nil {
		sw.app.logStatus(zerolog.ErrorLevel, fmt.Sprintf("Error showing %s: %v", name, err))
		sw.picture.Image = nil
		sw.layout.setImageSize(fyne.Size{})
		sw.caption.SetText(fmt.Sprintf("%d / %d  %s: cannot display%s", index+1, sw.cycler.Len(), name, state))
	} else {
		b := img.Bounds()
		sw.picture.Image = img
		sw.layout.setImageSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		sw.caption.SetText(fmt.Sprintf("%d / %d  %s%s", index+1, sw.cycler.Len(), name, state))
	}
	sw.stage.Refresh()
}

func (sw *slideshowWindow) togglePlay() {
	sw.cycler.TogglePlayPause()
	if sw.cycler.IsPaused() {
		sw.app.logStatus(zerolog.InfoLevel, "Slideshow paused")
	} else {
		sw.app.logStatus(zerolog.InfoLevel, "Slideshow resumed")
	}
	sw.cycler.Refresh()
}

// close stops the cycler and hands control back to the gallery.
func (sw *slideshowWindow) close() {
	sw.closeOnce.Do(func() {
		sw.cycler.Stop()
		sw.win.Close()
		sw.app.slideshowClosed()
	})
}
