package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// galleryRow is one entry of the gallery list: a thumbnail and the file name.
// It takes taps itself so that tapping an already selected row still reaches
// onTapped.
type galleryRow struct {
	widget.BaseWidget
	thumb    *canvas.Image
	label    *widget.Label
	row      widget.ListItemID
	onTapped func(widget.ListItemID)
}

func newGalleryRow(onTapped func(widget.ListItemID)) *galleryRow {
	r := &galleryRow{
		thumb:    canvas.NewImageFromResource(theme.FileImageIcon()),
		label:    widget.NewLabel("filename.ext"),
		onTapped: onTapped,
	}
	r.thumb.FillMode = canvas.ImageFillContain
	r.thumb.SetMinSize(fyne.NewSize(listThumbSize, listThumbSize))
	r.ExtendBaseWidget(r)
	return r
}

func (r *galleryRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, r.thumb, nil, r.label))
}

// Tapped implements fyne.Tappable.
func (r *galleryRow) Tapped(_ *fyne.PointEvent) {
	if r.onTapped != nil {
		r.onTapped(r.row)
	}
}

// bind points the row at list row id with the given caption and thumbnail.
func (r *galleryRow) bind(row widget.ListItemID, name string, res fyne.Resource) {
	r.row = row
	r.label.SetText(name)
	if r.thumb.Resource != res {
		r.thumb.Resource = res
		r.thumb.Refresh()
	}
}
