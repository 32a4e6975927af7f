// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"zone-marker/internal/api"
	"zone-marker/internal/app"
	"zone-marker/internal/polygon"
	"zone-marker/internal/session"
	syncctl "zone-marker/internal/sync"
	"zone-marker/internal/version"
	"zone-marker/pkg/geometry"
	"zone-marker/ui/canvas"
	"zone-marker/ui/dialogs"
	"zone-marker/ui/panels"
	"zone-marker/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	events *app.Events
	ctrl   *syncctl.Controller
	sess   *session.Session
	prefs  *prefs.Prefs

	canvas     *canvas.ZoneCanvas
	zonesPanel *panels.ZonesPanel
	statusBar  *widget.Label

	drawBtn    *widget.Button
	cancelBtn  *widget.Button
	saveBtn    *widget.Button
	refreshBtn *widget.Button
}

// New creates a new main window wired to the core components.
func New(fyneApp fyne.App, events *app.Events, ctrl *syncctl.Controller, sess *session.Session, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Zone Marker")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		events: events,
		ctrl:   ctrl,
		sess:   sess,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.updateControls()
	mw.restoreBackground()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewZoneCanvas()
	mw.canvas.OnClick(func(x, y float64) {
		mw.sess.HandleClick(geometry.NewPoint2D(x, y))
	})

	mw.zonesPanel = panels.NewZonesPanel(mw.ctrl)
	mw.zonesPanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas,
	)

	split := container.NewHSplit(
		mw.zonesPanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 700))
}

// createToolbar creates the drawing controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.drawBtn = widget.NewButton("Draw Polygon", mw.onStartDrawing)
	mw.cancelBtn = widget.NewButton("Cancel", mw.onCancelDrawing)
	mw.saveBtn = widget.NewButton("Save Polygon", mw.onRequestSave)
	mw.refreshBtn = widget.NewButton("Reload", mw.onRefresh)

	return container.NewHBox(
		mw.drawBtn,
		mw.cancelBtn,
		mw.saveBtn,
		widget.NewSeparator(),
		mw.refreshBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Background Image...", mw.onOpenBackground),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.events.On(app.EventPolygonsChanged, func(data interface{}) {
		mw.canvas.SetPolygons(mw.ctrl.Polygons())
		mw.zonesPanel.Reload()
	})

	mw.events.On(app.EventDraftChanged, func(data interface{}) {
		mw.canvas.SetDraft(mw.sess.DraftPoints())
		mw.updateControls()
	})

	mw.events.On(app.EventLoadingChanged, func(data interface{}) {
		mw.updateControls()
		if loading, ok := data.(bool); ok && loading {
			mw.updateStatus("Working...")
		}
	})

	mw.events.On(app.EventNotification, func(data interface{}) {
		if n, ok := data.(app.Notification); ok {
			mw.updateStatus(n.Message)
		}
	})
}

// updateControls syncs button visibility/enablement with the session and
// loading state. The save affordance appears at two points but only enables
// once the draft forms a polygon.
func (mw *MainWindow) updateControls() {
	loading := mw.ctrl.Loading()
	state := mw.sess.State()

	setEnabled(mw.drawBtn, state == session.StateIdle && !loading)
	setEnabled(mw.cancelBtn, state != session.StateIdle)
	setEnabled(mw.refreshBtn, !loading)

	if mw.sess.CanShowSaveAffordance() {
		mw.saveBtn.Show()
	} else {
		mw.saveBtn.Hide()
	}
	setEnabled(mw.saveBtn, state == session.StateDrawing && mw.sess.CanSave() && !loading)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Control handlers

func (mw *MainWindow) onStartDrawing() {
	if mw.sess.StartDrawing() {
		mw.updateStatus("Drawing: click the canvas to place points")
	}
}

func (mw *MainWindow) onCancelDrawing() {
	mw.sess.CancelDrawing()
	mw.updateStatus("Drawing cancelled")
}

func (mw *MainWindow) onRefresh() {
	go func() {
		_ = mw.ctrl.Refresh(context.Background())
	}()
}

// onRequestSave opens the naming dialog if the draft is savable.
func (mw *MainWindow) onRequestSave() {
	if !mw.sess.RequestSave() {
		return
	}
	mw.showNameDialog("")
}

// showNameDialog collects a name and submits the draft. On a duplicate-name
// rejection (or a name the client refuses to send) the dialog reopens with
// the typed name preserved so the user can correct it.
func (mw *MainWindow) showNameDialog(initial string) {
	dialogs.ShowNameEntry(mw.Window, initial,
		func(name string) {
			go func() {
				err := mw.sess.ConfirmSave(context.Background(), name)
				switch {
				case err == nil:
					// Collection refetch already handled by the controller.
				case errors.Is(err, api.ErrDuplicateName),
					errors.Is(err, polygon.ErrEmptyName),
					errors.Is(err, polygon.ErrNameTooLong):
					mw.showNameDialog(name)
				}
			}()
		},
		func() {
			mw.sess.CancelNaming()
		})
}

// Background image handling

func (mw *MainWindow) onOpenBackground() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.LoadBackground(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyBackgroundImage, path)
		_ = mw.prefs.Save()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
	fd.Show()
}

// LoadBackground loads and decodes the background image from disk.
func (mw *MainWindow) LoadBackground(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	mw.canvas.SetBackground(img)
	mw.updateStatus("Background: " + filepath.Base(path))
	return nil
}

// restoreBackground reloads the background used in the previous run.
func (mw *MainWindow) restoreBackground() {
	path := mw.prefs.String(prefs.KeyBackgroundImage)
	if path == "" {
		return
	}
	if err := mw.LoadBackground(path); err != nil {
		mw.updateStatus("Could not restore background image")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Zone Marker",
		fmt.Sprintf("Zone Marker v%s\n\n"+
			"Annotate a background image with named polygon zones.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
