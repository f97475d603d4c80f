package ui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"fygallery/internal/service"
	"fygallery/internal/slideshow"
	"fygallery/internal/store"
)

// previewSize is the box the preview image is scaled into.
var previewSize = fyne.NewSize(400, 400)

// showPreview shows rec scaled to fit in a transient dialog with its metadata.
func (a *App) showPreview(rec store.ImageRecord) {
	info, img, err := a.ImageService.GetImageInfo(rec.Path)
	if err != nil {
		a.showError("Previewing "+filepath.Base(rec.Path), err)
		return
	}

	w, h := slideshow.FitSize(float32(info.Width), float32(info.Height), previewSize.Width, previewSize.Height)
	picture := canvas.NewImageFromImage(img)
	picture.FillMode = canvas.ImageFillContain
	picture.ScaleMode = canvas.ImageScaleSmooth
	picture.SetMinSize(fyne.NewSize(w, h))

	content := container.NewVBox(
		container.NewCenter(picture),
		widget.NewSeparator(),
		infoForm(rec, info),
	)
	d := dialog.NewCustom(filepath.Base(rec.Path), "Close", content, a.UI.MainWin)
	d.Show()
}

func infoForm(rec store.ImageRecord, info *service.ImageInfo) *widget.Form {
	form := widget.NewForm(
		widget.NewFormItem("ID", widget.NewLabel(fmt.Sprintf("%d", rec.ID))),
		widget.NewFormItem("Path", pathLabel(rec.Path)),
		widget.NewFormItem("Format", widget.NewLabel(info.Format)),
		widget.NewFormItem("Dimensions", widget.NewLabel(fmt.Sprintf("%d x %d px", info.Width, info.Height))),
		widget.NewFormItem("Size", widget.NewLabel(humanize.IBytes(uint64(info.Size)))),
		widget.NewFormItem("Modified", widget.NewLabel(info.ModTime.Format("2006-01-02 15:04"))),
	)
	for _, key := range info.EXIFKeys() {
		form.Append(key, widget.NewLabel(info.EXIFData[key]))
	}
	return form
}

func pathLabel(path string) *widget.Label {
	l := widget.NewLabel(path)
	l.Truncation = fyne.TextTruncateEllipsis
	return l
}
