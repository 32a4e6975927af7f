// Package panels provides the side panel listing saved polygons.
package panels

import (
	"context"
	"fmt"

	"zone-marker/internal/polygon"
	syncctl "zone-marker/internal/sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ZonesPanel lists the saved polygons with a delete affordance per entry.
type ZonesPanel struct {
	ctrl   *syncctl.Controller
	window fyne.Window

	list     *widget.List
	snapshot []polygon.Polygon
	root     fyne.CanvasObject
}

// NewZonesPanel creates the panel bound to the sync controller.
func NewZonesPanel(ctrl *syncctl.Controller) *ZonesPanel {
	zp := &ZonesPanel{ctrl: ctrl}

	zp.list = widget.NewList(
		func() int {
			return len(zp.snapshot)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("polygon")
			del := widget.NewButton("Delete", nil)
			return container.NewBorder(nil, nil, nil, del, label)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(zp.snapshot) {
				return
			}
			p := zp.snapshot[id]

			row := item.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			del := row.Objects[1].(*widget.Button)

			label.SetText(fmt.Sprintf("%s (%d points)", p.Name, len(p.Points)))
			del.OnTapped = func() {
				zp.confirmDelete(p)
			}
		},
	)

	zp.root = container.NewBorder(
		widget.NewLabel("Saved polygons"), // top
		nil, nil, nil,
		zp.list,
	)

	return zp
}

// SetWindow sets the parent window for confirmation dialogs.
func (zp *ZonesPanel) SetWindow(win fyne.Window) {
	zp.window = win
}

// Container returns the panel for embedding in layouts.
func (zp *ZonesPanel) Container() fyne.CanvasObject {
	return zp.root
}

// Reload replaces the displayed snapshot from the controller's cache.
func (zp *ZonesPanel) Reload() {
	zp.snapshot = zp.ctrl.Polygons()
	zp.list.Refresh()
}

// confirmDelete asks for explicit confirmation before firing the delete call.
func (zp *ZonesPanel) confirmDelete(p polygon.Polygon) {
	if zp.ctrl.Loading() {
		return
	}

	dialog.ShowConfirm("Delete polygon",
		fmt.Sprintf("Delete polygon %q? This cannot be undone.", p.Name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			go func() {
				// Outcome surfaced through notifications; collection refetched
				// by the controller on success.
				_ = zp.ctrl.DeletePolygon(context.Background(), p.ID)
			}()
		},
		zp.window)
}
