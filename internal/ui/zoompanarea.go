package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// ZoomPanArea displays the lightbox image at the scale chosen by the
// controller. Scale 1 fits the image to the view; larger scales enlarge it
// around the center and the user can drag to pan.
type ZoomPanArea struct {
	widget.BaseWidget

	originalImg image.Image
	raster      *canvas.Raster

	scale      float32
	zoomFactor float32 // fit factor times scale
	panOffset  fyne.Position

	isPanning    bool
	lastMousePos fyne.Position

	// OnScroll is called with true to zoom in and false to zoom out.
	OnScroll func(zoomIn bool)
}

// NewZoomPanArea creates an empty area.
func NewZoomPanArea(onScroll func(zoomIn bool)) *ZoomPanArea {
	zpa := &ZoomPanArea{scale: 1, zoomFactor: 1, OnScroll: onScroll}
	zpa.raster = canvas.NewRaster(zpa.draw)
	zpa.ExtendBaseWidget(zpa)
	return zpa
}

// SetImage replaces the image and re-centers it at the current scale.
func (zpa *ZoomPanArea) SetImage(img image.Image) {
	zpa.originalImg = img
	zpa.relayout()
}

// SetScale applies a controller zoom level.
func (zpa *ZoomPanArea) SetScale(scale float32) {
	if scale <= 0 {
		scale = 1
	}
	zpa.scale = scale
	zpa.relayout()
}

// Scale returns the controller zoom level in effect.
func (zpa *ZoomPanArea) Scale() float32 {
	return zpa.scale
}

// relayout fits the image into the view, applies the scale and centers it.
func (zpa *ZoomPanArea) relayout() {
	zpa.panOffset = fyne.Position{}
	size := zpa.Size()
	if zpa.originalImg == nil || size.Width <= 0 || size.Height <= 0 {
		zpa.zoomFactor = zpa.scale
		zpa.Refresh()
		return
	}
	b := zpa.originalImg.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	fit := size.Width / imgW
	if h := size.Height / imgH; h < fit {
		fit = h
	}
	zpa.zoomFactor = fit * zpa.scale
	zpa.panOffset.X = (size.Width - imgW*zpa.zoomFactor) / 2
	zpa.panOffset.Y = (size.Height - imgH*zpa.zoomFactor) / 2
	zpa.Refresh()
}

func (zpa *ZoomPanArea) draw(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if zpa.originalImg == nil || w <= 0 || h <= 0 || zpa.zoomFactor <= 0 {
		return dst
	}
	src := zpa.originalImg.Bounds()
	inv := 1 / zpa.zoomFactor
	for dy := 0; dy < h; dy++ {
		sy := (float32(dy) - zpa.panOffset.Y) * inv
		if sy < float32(src.Min.Y) || sy >= float32(src.Max.Y) {
			continue
		}
		for dx := 0; dx < w; dx++ {
			sx := (float32(dx) - zpa.panOffset.X) * inv
			if sx >= float32(src.Min.X) && sx < float32(src.Max.X) {
				dst.Set(dx, dy, zpa.originalImg.At(int(sx), int(sy)))
			}
		}
	}
	return dst
}

func (zpa *ZoomPanArea) CreateRenderer() fyne.WidgetRenderer {
	return &zoomPanAreaRenderer{zpa: zpa}
}

// Resize keeps the image fitted when the window changes size.
func (zpa *ZoomPanArea) Resize(size fyne.Size) {
	if size == zpa.Size() {
		return
	}
	zpa.BaseWidget.Resize(size)
	zpa.relayout()
}

// Scrolled forwards wheel zoom to the controller.
func (zpa *ZoomPanArea) Scrolled(ev *fyne.ScrollEvent) {
	if zpa.OnScroll == nil || ev.Scrolled.DY == 0 {
		return
	}
	zpa.OnScroll(ev.Scrolled.DY > 0)
}

func (zpa *ZoomPanArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		zpa.isPanning = true
		zpa.lastMousePos = ev.Position
	}
}

func (zpa *ZoomPanArea) MouseUp(_ *desktop.MouseEvent) {
	zpa.isPanning = false
}

func (zpa *ZoomPanArea) Dragged(ev *fyne.DragEvent) {
	if !zpa.isPanning {
		return
	}
	zpa.panOffset = zpa.panOffset.Add(ev.Position.Subtract(zpa.lastMousePos))
	zpa.lastMousePos = ev.Position
	zpa.Refresh()
}

func (zpa *ZoomPanArea) DragEnd() {
	zpa.isPanning = false
}

type zoomPanAreaRenderer struct{ zpa *ZoomPanArea }

func (r *zoomPanAreaRenderer) Layout(size fyne.Size)        { r.zpa.raster.Resize(size) }
func (r *zoomPanAreaRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 200) }
func (r *zoomPanAreaRenderer) Refresh()                     { canvas.Refresh(r.zpa.raster) }
func (r *zoomPanAreaRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.zpa.raster} }
func (r *zoomPanAreaRenderer) Destroy()                     {}

var _ fyne.Widget = (*ZoomPanArea)(nil)
var _ fyne.Scrollable = (*ZoomPanArea)(nil)
var _ fyne.Draggable = (*ZoomPanArea)(nil)
