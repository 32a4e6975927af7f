// Package canvas provides the annotation canvas: the background image with
// saved polygons and the in-progress draft composited on top.
package canvas

import (
	"image"
	"sync"

	"zone-marker/internal/polygon"
	"zone-marker/internal/render"
	"zone-marker/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// ZoneCanvas displays the composited annotation view and forwards clicks in
// canvas-local coordinates. It keeps only snapshots of the inputs; all pixel
// output comes from render.Compose.
type ZoneCanvas struct {
	widget.BaseWidget

	mu         sync.Mutex
	background image.Image
	polygons   []polygon.Polygon
	draft      []geometry.Point2D

	raster  *fynecanvas.Raster
	content *clickableContent

	onClick func(x, y float64)
}

// NewZoneCanvas creates an empty canvas.
func NewZoneCanvas() *ZoneCanvas {
	zc := &ZoneCanvas{}

	zc.raster = fynecanvas.NewRaster(zc.draw)
	zc.raster.ScaleMode = fynecanvas.ImageScalePixels
	zc.raster.SetMinSize(fyne.NewSize(defaultWidth, defaultHeight))

	zc.content = newClickableContent(zc, zc.raster)

	zc.ExtendBaseWidget(zc)
	return zc
}

// SetBackground sets the background image. The image is stretched to fill
// the canvas bounds on every draw.
func (zc *ZoneCanvas) SetBackground(img image.Image) {
	zc.mu.Lock()
	zc.background = img
	zc.mu.Unlock()
	zc.Refresh()
}

// SetPolygons replaces the saved-polygon snapshot.
func (zc *ZoneCanvas) SetPolygons(polygons []polygon.Polygon) {
	zc.mu.Lock()
	zc.polygons = polygons
	zc.mu.Unlock()
	zc.Refresh()
}

// SetDraft replaces the draft-point snapshot.
func (zc *ZoneCanvas) SetDraft(points []geometry.Point2D) {
	zc.mu.Lock()
	zc.draft = points
	zc.mu.Unlock()
	zc.Refresh()
}

// OnClick sets the callback receiving clicks in canvas-local coordinates.
func (zc *ZoneCanvas) OnClick(callback func(x, y float64)) {
	zc.onClick = callback
}

// Refresh redraws the raster from the current snapshots.
func (zc *ZoneCanvas) Refresh() {
	zc.raster.Refresh()
}

// draw is the raster drawing function; it is a pure function of the snapshots.
func (zc *ZoneCanvas) draw(w, h int) image.Image {
	zc.mu.Lock()
	background := zc.background
	polygons := zc.polygons
	draft := zc.draft
	zc.mu.Unlock()

	return render.Compose(background, polygons, draft, w, h)
}

// CreateRenderer implements fyne.Widget.
func (zc *ZoneCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zc.content)
}

// clickableContent wraps the raster to handle tap events.
type clickableContent struct {
	widget.BaseWidget
	canvas *ZoneCanvas
	raster *fynecanvas.Raster
}

func newClickableContent(zc *ZoneCanvas, raster *fynecanvas.Raster) *clickableContent {
	cc := &clickableContent{canvas: zc, raster: raster}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *clickableContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}

func (cc *clickableContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

// Tapped forwards a click as canvas-local coordinates.
func (cc *clickableContent) Tapped(ev *fyne.PointEvent) {
	if cc.canvas.onClick == nil {
		return
	}

	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	cc.canvas.onClick(float64(ev.Position.X), float64(ev.Position.Y))
}
