package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

type shortcutHelp struct {
	keys        string
	description string
}

var galleryShortcuts = []shortcutHelp{
	{"Ctrl+Q", "Quit Application"},
	{"Ctrl+O", "Add Image"},
	{"Ctrl+U", "Upload Images from a folder"},
	{"Ctrl+F", "Filter the list"},
	{"F5", "Start Slideshow"},
	{"Delete", "Remove Selected Image"},
	{"Esc", "Close dialog"},
}

var slideshowShortcuts = []shortcutHelp{
	{"P or Space", "Pause / Resume Slideshow"},
	{"Arrow Right", "Next Image"},
	{"Arrow Left", "Previous Image"},
	{"Esc or Q", "Close Slideshow"},
}

func (a *App) buildKeyboardShortcuts() {
	c := a.UI.MainWin.Canvas()

	// ctrl+q to quit application
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: a.UI.mainModKey},
		func(_ fyne.Shortcut) { a.app.Quit() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: a.UI.mainModKey},
		func(_ fyne.Shortcut) { a.showAddDialog() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyU, Modifier: a.UI.mainModKey},
		func(_ fyne.Shortcut) { a.showUploadDialog() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyF, Modifier: a.UI.mainModKey},
		func(_ fyne.Shortcut) { c.Focus(a.UI.searchEntry) })

	c.SetOnTypedKey(func(key *fyne.KeyEvent) {
		if a.slideshow != nil {
			return
		}
		switch key.Name {
		case fyne.KeyF5:
			a.startSlideshow()
		case fyne.KeyDelete:
			a.removeSelected()
		// close dialogs with esc key
		case fyne.KeyEscape:
			if top := c.Overlays().Top(); top != nil {
				top.Hide()
			}
		}
	})
}

func (sw *slideshowWindow) buildKeyboardShortcuts() {
	sw.win.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyRight:
			sw.cycler.Next()
		case fyne.KeyLeft:
			sw.cycler.Previous()
		case fyne.KeyP, fyne.KeySpace:
			sw.togglePlay()
		case fyne.KeyEscape, fyne.KeyQ:
			sw.close()
		}
	})
}

func (a *App) showShortcuts() {
	rows := append([]shortcutHelp{{"Gallery", ""}}, galleryShortcuts...)
	rows = append(rows, shortcutHelp{"Slideshow", ""})
	rows = append(rows, slideshowShortcuts...)

	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(rows), 2 },
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			row := rows[id.Row]
			isHeader := row.description == ""
			if id.Col == 0 {
				label.SetText(row.keys)
			} else {
				label.SetText(row.description)
			}
			label.TextStyle.Bold = isHeader
			label.Refresh()
		},
	)
	table.SetColumnWidth(0, 150)
	table.SetColumnWidth(1, 300)
	win.SetContent(table)
	win.Resize(fyne.NewSize(470, 420))
	win.Show()
}
