// Package ui is the Fyne front end of the gallery.
package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"fygallery/internal/config"
	"fygallery/internal/logging"
	"fygallery/internal/scan"
	"fygallery/internal/service"
	"fygallery/internal/store"
)

const (
	appID       = "io.github.fygallery"
	windowTitle = "Image Slideshow"
)

// App represents the whole application with all its windows, widgets and functions
type App struct {
	app fyne.App
	UI  UI

	cfg          *config.Config
	logger       zerolog.Logger
	Gallery      *service.Gallery
	ImageService *service.ImageService
	scanner      *scan.FileScanner
	view         *service.ViewManager
	thumbnails   *ThumbnailManager
	status       *StatusLog
	slideshow    *slideshowWindow

	// restoringSelection is set while the list selection is restored after a reload.
	restoringSelection bool
}

// UI holds the widgets of the main window.
type UI struct {
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	list         *widget.List
	searchEntry  *widget.Entry
	countLabel   *widget.Label
	uploadBtn    *widget.Button
	addBtn       *widget.Button
	removeBtn    *widget.Button
	slideshowBtn *widget.Button

	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button

	// galleryMenuItems are disabled together with the buttons while a
	// slideshow is open.
	galleryMenuItems []*fyne.MenuItem
}

// newApp wires the gallery services around s. It does not build any window.
func newApp(fyneApp fyne.App, cfg *config.Config, s store.Store, logger zerolog.Logger) *App {
	scanner := scan.NewFileScanner(cfg.Gallery.Extensions...)
	a := &App{
		app:          fyneApp,
		cfg:          cfg,
		logger:       logging.Component(logger, "ui"),
		scanner:      scanner,
		Gallery:      service.NewGallery(s, scanner, logging.Component(logger, "gallery")),
		ImageService: service.NewImageService(),
		view:         service.NewViewManager(),
	}
	a.thumbnails = NewThumbnailManager(a.ImageService, func(msg string) {
		fyne.Do(func() { a.logStatus(zerolog.WarnLevel, msg) })
	})
	return a
}

// CreateApplication is the GUI entrypoint. It blocks until the main window
// is closed.
func CreateApplication(cfg *config.Config, s store.Store, logger zerolog.Logger) {
	fyneApp := app.NewWithID(appID)
	fyneApp.Settings().SetTheme(NewGalleryTheme(fyneApp.Settings().Theme()))

	a := newApp(fyneApp, cfg, s, logger)
	a.UI.MainWin = fyneApp.NewWindow(windowTitle)
	a.UI.MainWin.SetContent(a.buildMainUI())
	a.UI.MainWin.SetOnDropped(a.onDropped)
	a.UI.MainWin.SetCloseIntercept(func() {
		if a.slideshow != nil {
			a.slideshow.close()
		}
		a.UI.MainWin.Close()
	})
	a.UI.MainWin.Resize(fyne.NewSize(640, 720))
	a.UI.MainWin.CenterOnScreen()

	a.reload()
	a.logStatus(zerolog.InfoLevel, fmt.Sprintf("%d images in gallery", a.view.Total()))
	a.UI.MainWin.ShowAndRun()
}

// logStatus writes text to the log and to the status bar. Must run on the
// Fyne main thread.
func (a *App) logStatus(level zerolog.Level, text string) {
	a.logger.WithLevel(level).Msg(text)
	if a.status != nil {
		a.status.Add(level, text)
	}
}

// showError reports a failed user action.
func (a *App) showError(action string, err error) {
	a.logger.Error().Err(err).Str("action", action).Msg("Action failed")
	if a.status != nil {
		a.status.Add(zerolog.ErrorLevel, fmt.Sprintf("%s failed: %v", action, err))
	}
	if a.UI.MainWin != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", action, err), a.UI.MainWin)
	}
}

// reload re-fetches every record and repopulates the list.
func (a *App) reload() {
	records, err := a.Gallery.Records(context.Background())
	if err != nil {
		a.showError("Loading images", err)
		return
	}
	a.view.Reload(records)
	a.refreshList()
}

func (a *App) refreshList() {
	if a.UI.list == nil {
		return
	}
	a.UI.list.Refresh()
	if row, ok := a.view.SelectedRow(); ok {
		a.restoringSelection = true
		a.UI.list.Select(row)
		a.restoringSelection = false
	} else {
		a.UI.list.UnselectAll()
	}
	a.updateCount()
}

func (a *App) updateCount() {
	if a.UI.countLabel == nil {
		return
	}
	text := fmt.Sprintf("%d images", a.view.Total())
	if a.view.Filter() != "" {
		text = fmt.Sprintf("%d of %d images", a.view.Len(), a.view.Total())
	}
	a.UI.countLabel.SetText(text)
}

// addImages inserts paths and reloads, whatever the outcome.
func (a *App) addImages(paths []string) {
	if len(paths) == 0 {
		return
	}
	n, err := a.Gallery.AddImages(context.Background(), paths)
	if err != nil {
		a.showError("Adding images", err)
	}
	if n > 0 {
		a.logStatus(zerolog.InfoLevel, fmt.Sprintf("Added %d image(s)", n))
	}
	a.reload()
}

// importDirectory adds every image under dir without blocking the UI.
func (a *App) importDirectory(dir string) {
	a.logStatus(zerolog.InfoLevel, fmt.Sprintf("Importing %s...", dir))
	go func() {
		n, err := a.Gallery.ImportDirectory(context.Background(), dir)
		fyne.Do(func() {
			if err != nil {
				a.showError("Importing "+filepath.Base(dir), err)
			}
			a.logStatus(zerolog.InfoLevel, fmt.Sprintf("Imported %d image(s) from %s", n, dir))
			a.reload()
		})
	}()
}

// removeSelected deletes the selected record. Without a selection it does nothing.
func (a *App) removeSelected() {
	if a.slideshowOpen() {
		return
	}
	id, ok := a.view.SelectedID()
	if !ok {
		return
	}
	if err := a.Gallery.Remove(context.Background(), id); err != nil {
		a.showError("Removing image", err)
		return
	}
	a.view.ClearSelection()
	a.logStatus(zerolog.InfoLevel, fmt.Sprintf("Removed image %d", id))
	a.reload()
}

// selectRow records the list selection by record id.
func (a *App) selectRow(row int) {
	if _, err := a.view.Select(row); err != nil {
		a.logger.Warn().Err(err).Int("row", row).Msg("Selection out of range")
	}
}

// activateRow selects row and previews it. Every tap previews, including taps
// on the row that is already selected.
func (a *App) activateRow(row int) {
	if a.slideshowOpen() {
		return
	}
	a.UI.list.Select(row)
	rec, err := a.view.RecordAt(row)
	if err != nil {
		a.logger.Warn().Err(err).Int("row", row).Msg("Tapped row out of range")
		return
	}
	a.showPreview(rec)
}

// cleanMissing drops records whose files are gone.
func (a *App) cleanMissing() {
	if a.slideshowOpen() {
		return
	}
	n, err := a.Gallery.CleanMissing(context.Background())
	if err != nil {
		a.showError("Cleaning gallery", err)
		return
	}
	a.logStatus(zerolog.InfoLevel, fmt.Sprintf("Removed %d missing image(s)", n))
	a.reload()
}

// slideshowOpen reports whether a slideshow holds the gallery. Gallery
// actions are ignored until it is dismissed.
func (a *App) slideshowOpen() bool {
	return a.slideshow != nil
}

// startSlideshow opens the slideshow window over every record. An empty
// gallery never starts one.
func (a *App) startSlideshow() {
	if a.slideshow != nil {
		a.slideshow.win.RequestFocus()
		return
	}
	records, err := a.Gallery.SlideshowRecords(context.Background())
	if errors.Is(err, service.ErrEmptyGallery) {
		a.logStatus(zerolog.InfoLevel, "No images to show")
		dialog.ShowInformation("Slideshow", "Add some images first.", a.UI.MainWin)
		return
	}
	if err != nil {
		a.showError("Starting slideshow", err)
		return
	}
	sw, err := newSlideshowWindow(a, records)
	if err != nil {
		a.showError("Starting slideshow", err)
		return
	}
	a.slideshow = sw
	a.setControlsEnabled(false)
	a.logStatus(zerolog.InfoLevel, fmt.Sprintf("Slideshow started with %d images", len(records)))
	sw.show()
}

// slideshowClosed is called by the slideshow window once it is dismissed.
func (a *App) slideshowClosed() {
	a.slideshow = nil
	a.setControlsEnabled(true)
	a.logStatus(zerolog.InfoLevel, "Slideshow closed")
	a.UI.MainWin.RequestFocus()
}

func (a *App) setControlsEnabled(enabled bool) {
	for _, btn := range []*widget.Button{a.UI.uploadBtn, a.UI.addBtn, a.UI.removeBtn, a.UI.slideshowBtn} {
		setEnabled(btn, enabled)
	}
	for _, item := range a.UI.galleryMenuItems {
		item.Disabled = !enabled
	}
	if a.UI.MainWin != nil {
		if menu := a.UI.MainWin.MainMenu(); menu != nil {
			menu.Refresh()
		}
	}
}

// onDropped adds the image files dropped onto the main window.
func (a *App) onDropped(_ fyne.Position, uris []fyne.URI) {
	if a.slideshowOpen() {
		return
	}
	var paths []string
	for _, u := range uris {
		if u.Scheme() != "file" {
			continue
		}
		if a.scanner.IsImage(u.Path()) {
			paths = append(paths, u.Path())
		} else {
			a.logStatus(zerolog.WarnLevel, fmt.Sprintf("Skipped %s: not a supported image", filepath.Base(u.Path())))
		}
	}
	a.addImages(paths)
}
