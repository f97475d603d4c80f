package ui

import (
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const listThumbSize = 48

func (a *App) buildMainUI() fyne.CanvasObject {
	a.UI.MainWin.SetMaster()
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}

	a.UI.uploadBtn = widget.NewButtonWithIcon("Upload Images", theme.UploadIcon(), a.showUploadDialog)
	a.UI.addBtn = widget.NewButtonWithIcon("Add Image", theme.ContentAddIcon(), a.showAddDialog)
	a.UI.removeBtn = widget.NewButtonWithIcon("Remove Image", theme.DeleteIcon(), a.removeSelected)
	a.UI.slideshowBtn = widget.NewButtonWithIcon("Start Slideshow", theme.MediaPlayIcon(), a.startSlideshow)
	a.UI.slideshowBtn.Importance = widget.HighImportance

	a.UI.searchEntry = widget.NewEntry()
	a.UI.searchEntry.SetPlaceHolder("Filter by file name")
	a.UI.searchEntry.OnChanged = func(term string) {
		a.view.SetFilter(term)
		a.refreshList()
	}
	a.UI.countLabel = widget.NewLabel("")

	a.UI.list = widget.NewList(
		a.view.Len,
		a.createListItem,
		a.updateListItem,
	)
	a.UI.list.OnSelected = a.selectRow
	a.UI.list.OnUnselected = func(widget.ListItemID) {
		if !a.restoringSelection {
			a.view.ClearSelection()
		}
	}

	buttons := container.NewGridWithColumns(2,
		a.UI.uploadBtn, a.UI.addBtn,
		a.UI.removeBtn, a.UI.slideshowBtn,
	)
	top := container.NewVBox(
		buttons,
		container.NewBorder(nil, nil, nil, a.UI.countLabel, a.UI.searchEntry),
	)

	a.UI.MainWin.SetMainMenu(a.buildMainMenu())
	a.buildKeyboardShortcuts()

	return container.NewBorder(
		top,                // Top
		a.buildStatusBar(), // Bottom
		nil,                // Left
		nil,                // Right
		a.UI.list,
	)
}

func (a *App) createListItem() fyne.CanvasObject {
	return newGalleryRow(a.activateRow)
}

func (a *App) updateListItem(id widget.ListItemID, obj fyne.CanvasObject) {
	row := obj.(*galleryRow)
	rec, err := a.view.RecordAt(id)
	if err != nil {
		row.bind(id, "", theme.FileImageIcon())
		return
	}

	res := theme.FileImageIcon()
	if a.cfg.Gallery.Thumbnails {
		res = a.thumbnails.GetThumbnail(rec.Path, func(fyne.Resource) {
			a.UI.list.RefreshItem(id)
		})
	}
	row.bind(id, a.view.Filename(id), res)
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	a.UI.statusLogLabel = widget.NewLabel("")
	a.UI.statusLogLabel.Truncation = fyne.TextTruncateEllipsis
	a.UI.statusLogUpBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		a.status.Older()
	})
	a.UI.statusLogDownBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		a.status.Newer()
	})
	a.status = NewStatusLog(a.UI.statusLogLabel, a.UI.statusLogUpBtn, a.UI.statusLogDownBtn, DefaultStatusHistory)

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil,
			container.NewHBox(a.UI.statusLogUpBtn, a.UI.statusLogDownBtn),
			a.UI.statusLogLabel,
		),
	)
}

func (a *App) buildMainMenu() *fyne.MainMenu {
	addItem := fyne.NewMenuItem("Add Image...", a.showAddDialog)
	uploadItem := fyne.NewMenuItem("Upload Images...", a.showUploadDialog)
	cleanItem := fyne.NewMenuItem("Remove Missing Files", a.cleanMissing)
	slideshowItem := fyne.NewMenuItem("Start Slideshow", a.startSlideshow)
	reloadItem := fyne.NewMenuItem("Reload", a.reload)
	a.UI.galleryMenuItems = []*fyne.MenuItem{addItem, uploadItem, cleanItem, slideshowItem, reloadItem}

	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			addItem,
			uploadItem,
			fyne.NewMenuItemSeparator(),
			cleanItem,
		),
		fyne.NewMenu("View",
			slideshowItem,
			reloadItem,
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", func() {
				NewAbout(&a.UI.MainWin, "About", a.cfg).Show()
			}),
		),
	)
}

func (a *App) imageFilter() storage.FileFilter {
	return storage.NewExtensionFileFilter(a.scanner.Extensions())
}

// showAddDialog lets the user pick one image file and adds it.
func (a *App) showAddDialog() {
	if a.slideshowOpen() {
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("Opening file", err)
			return
		}
		if reader == nil {
			return // cancelled
		}
		path := reader.URI().Path()
		reader.Close()
		a.addImages([]string{path})
	}, a.UI.MainWin)
	d.SetFilter(a.imageFilter())
	d.Resize(fyne.NewSize(800, 600))
	d.Show()
}

// showUploadDialog lets the user pick a folder and adds every image in it.
func (a *App) showUploadDialog() {
	if a.slideshowOpen() {
		return
	}
	d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			a.showError("Opening folder", err)
			return
		}
		if dir == nil {
			return // cancelled
		}
		a.importDirectory(dir.Path())
	}, a.UI.MainWin)
	d.Resize(fyne.NewSize(800, 600))
	d.Show()
}

// statusRow is a label flanked by spacers, used for centred captions.
func statusRow(obj fyne.CanvasObject) *fyne.Container {
	return container.NewHBox(layout.NewSpacer(), obj, layout.NewSpacer())
}
