package components

import (
	"bytes"
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"barcode-batcher/internal/models"
)

// Thumbnailer produces preview images from encoded barcode images
type Thumbnailer interface {
	Thumbnail(key string, data []byte) (image.Image, error)
	Size() int
}

// PreviewGrid shows each record as a thumbnail, caption and checkbox
type PreviewGrid struct {
	container     *fyne.Container
	grid          *fyne.Container
	scroll        *container.Scroll
	thumbnails    Thumbnailer
	columns       int
	checks        []*widget.Check
	updating      bool
	selectHandler func(int, bool)
}

// NewPreviewGrid creates an empty preview grid with the given column count
func NewPreviewGrid(thumbnails Thumbnailer, columns int) *PreviewGrid {
	if columns <= 0 {
		columns = 4
	}
	pg := &PreviewGrid{
		thumbnails: thumbnails,
		columns:    columns,
	}
	pg.grid = container.NewGridWithColumns(columns)
	pg.scroll = container.NewVScroll(pg.grid)
	pg.scroll.SetMinSize(fyne.NewSize(640, 360))
	pg.container = container.NewStack(pg.scroll)
	return pg
}

// SetSelectHandler sets the callback for checkbox changes made by the user
func (pg *PreviewGrid) SetSelectHandler(handler func(int, bool)) {
	pg.selectHandler = handler
}

// SetRecords rebuilds the grid for records, all unchecked
func (pg *PreviewGrid) SetRecords(records []models.BarcodeRecord) {
	pg.grid.RemoveAll()
	pg.checks = make([]*widget.Check, len(records))

	for i, record := range records {
		pg.grid.Add(pg.cell(i, record))
	}
	pg.grid.Refresh()
	pg.scroll.ScrollToTop()
}

func (pg *PreviewGrid) cell(i int, record models.BarcodeRecord) fyne.CanvasObject {
	size := float32(pg.thumbnails.Size())

	var img *canvas.Image
	thumb, err := pg.thumbnails.Thumbnail(fmt.Sprintf("%d_%s", i, record.Payload), record.Image)
	if err != nil {
		img = canvas.NewImageFromReader(bytes.NewReader(record.Image), record.Payload+".png")
	} else {
		img = canvas.NewImageFromImage(thumb)
	}
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(size*2, size))

	caption := widget.NewLabel(record.Caption())
	caption.Wrapping = fyne.TextWrapWord
	caption.Alignment = fyne.TextAlignCenter

	check := widget.NewCheck("Select", func(selected bool) {
		if pg.updating || pg.selectHandler == nil {
			return
		}
		pg.selectHandler(i, selected)
	})
	pg.checks[i] = check

	return container.NewVBox(img, caption, container.NewCenter(check))
}

// SetSelection mirrors selection flags onto the checkboxes without firing the select handler
func (pg *PreviewGrid) SetSelection(selection []bool) {
	pg.updating = true
	defer func() { pg.updating = false }()

	for i, check := range pg.checks {
		check.SetChecked(i < len(selection) && selection[i])
	}
}

// Len reports how many records the grid shows
func (pg *PreviewGrid) Len() int {
	return len(pg.checks)
}

// Clear removes every preview
func (pg *PreviewGrid) Clear() {
	pg.SetRecords(nil)
}

// GetContainer returns the preview container
func (pg *PreviewGrid) GetContainer() *fyne.Container {
	return pg.container
}
