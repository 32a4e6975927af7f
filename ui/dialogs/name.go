// Package dialogs provides modal dialogs for the zone marker UI.
package dialogs

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowNameEntry opens the polygon naming dialog, pre-filled with initial.
// onSave receives the entered name; onCancel fires when the dialog is dismissed.
func ShowNameEntry(win fyne.Window, initial string, onSave func(name string), onCancel func()) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Polygon name")
	entry.SetText(initial)

	items := []*widget.FormItem{
		widget.NewFormItem("Name", entry),
	}

	form := dialog.NewForm("Save polygon", "Save", "Cancel", items,
		func(confirmed bool) {
			if confirmed {
				onSave(entry.Text)
			} else if onCancel != nil {
				onCancel()
			}
		}, win)
	form.Resize(fyne.NewSize(320, 140))
	form.Show()

	win.Canvas().Focus(entry)
}
