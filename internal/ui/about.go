package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/config"
	"fygallery/internal/store"
)

type About struct {
	title     string
	parent    *fyne.Window
	container *fyne.Container
	d         dialog.Dialog
}

func NewAbout(parent *fyne.Window, title string, cfg *config.Config) *About {
	a := &About{
		title:  title,
		parent: parent,
	}

	img := canvas.NewImageFromResource(theme.MediaPhotoIcon())
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(96, 96))

	dbPath, err := store.ResolvePath(cfg.Store)
	if err != nil {
		dbPath = err.Error()
	}

	vbox := container.NewVBox(
		img,
		statusRow(widget.NewLabelWithStyle(windowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})),
		widget.NewLabel("Keep a list of pictures and show them as a slideshow."),
		widget.NewForm(
			widget.NewFormItem("Database", pathLabel(fmt.Sprintf("%s (%s)", dbPath, cfg.Store.Driver))),
			widget.NewFormItem("Interval", widget.NewLabel(cfg.Slideshow.Interval.String())),
		),
	)

	ok := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButton("OK", func() { a.Hide() }),
		layout.NewSpacer(),
	)

	a.container = container.NewBorder(nil, ok, nil, nil, vbox)

	return a
}

func (a *About) Hide() {
	a.d.Hide()
}

func (a *About) Show() {
	a.d = dialog.NewCustomWithoutButtons(a.title, a.container, *a.parent)
	a.d.Show()
}
