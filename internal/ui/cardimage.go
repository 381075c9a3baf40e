package ui

import (
	"fygallery/internal/gallery"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// cardImage is the thumbnail of one gallery card. Tapping it opens that
// card's image in the lightbox.
type cardImage struct {
	widget.BaseWidget
	key      string
	dispatch func(key string, action gallery.Action)
	image    *canvas.Image
	loaded   bool
}

var _ desktop.Cursorable = (*cardImage)(nil)

// newCardImage shows res, or a placeholder icon while res is nil.
func newCardImage(key string, res fyne.Resource, dispatch func(string, gallery.Action)) *cardImage {
	ci := &cardImage{key: key, dispatch: dispatch, loaded: res != nil}
	if res == nil {
		res = theme.FileImageIcon()
	}
	ci.image = canvas.NewImageFromResource(res)
	ci.image.FillMode = canvas.ImageFillContain
	ci.ExtendBaseWidget(ci)
	return ci
}

func (ci *cardImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ci.image)
}

func (ci *cardImage) Tapped(_ *fyne.PointEvent) {
	if ci.dispatch != nil {
		ci.dispatch(ci.key, gallery.ActionOpen)
	}
}

func (ci *cardImage) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

// SetResource replaces the placeholder once the thumbnail arrives.
func (ci *cardImage) SetResource(res fyne.Resource) {
	if res == nil {
		return
	}
	ci.loaded = true
	ci.image.Resource = res
	canvas.Refresh(ci.image)
}

func (ci *cardImage) SetMinSize(size fyne.Size) {
	ci.image.SetMinSize(size)
}
