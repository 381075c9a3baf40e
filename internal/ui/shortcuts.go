// Package ui  Shortcuts for keyboard actions
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

func (a *App) buildKeyboardShortcuts() {
	// ctrl+q to quit application
	a.MainWin.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.mainModKey,
	}, func(_ fyne.Shortcut) { a.app.Quit() })

	// ctrl+f jumps to the search box
	a.MainWin.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyF,
		Modifier: a.mainModKey,
	}, func(_ fyne.Shortcut) { a.MainWin.Canvas().Focus(a.search) })

	// ctrl+r reloads the list with the current filters
	a.MainWin.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyR,
		Modifier: a.mainModKey,
	}, func(_ fyne.Shortcut) { a.refresh() })

	a.MainWin.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			a.dismissOverlay(a.MainWin.Canvas())
		}
	})
}

// dismissOverlay closes the like prompt through the controller, or else the
// top dialog of c. It reports whether anything was closed.
func (a *App) dismissOverlay(c fyne.Canvas) bool {
	if a.ctl.LikeGate.Visible() {
		a.ctl.LikeGate.Close()
		return true
	}
	if len(c.Overlays().List()) > 0 {
		c.Overlays().Top().Hide()
		return true
	}
	return false
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

var shortcutRows = [][2]string{
	{"Quit Application", "Ctrl+Q"},
	{"Search", "Ctrl+F"},
	{"Reload Images", "Ctrl+R"},
	{"Previous Image (viewer)", "Arrow Left"},
	{"Next Image (viewer)", "Arrow Right"},
	{"Toggle Fullscreen (viewer)", "F"},
	{"Play/Pause Slideshow (viewer)", "Space"},
	{"Zoom (viewer)", "Mouse Wheel"},
	{"Close Viewer or Dialog", "Esc"},
}

func (a *App) showShortcuts() {
	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(shortcutRows) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			isHeader := id.Row == 0
			if isHeader {
				label.SetText(ternary(id.Col == 0, "Description", "Shortcut"))
			} else {
				label.SetText(shortcutRows[id.Row-1][id.Col])
			}
			label.TextStyle.Bold = isHeader
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 250)
	win.SetContent(table)
	win.Resize(fyne.NewSize(500, 360))
	win.Show()
}
