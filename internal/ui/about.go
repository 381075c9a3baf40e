package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// About shows the connection details of the running gallery.
type About struct {
	title     string
	parent    fyne.Window
	container *fyne.Container
	d         dialog.Dialog
}

func NewAbout(parent fyne.Window, title string, rows ...fyne.CanvasObject) *About {
	a := &About{
		title:  title,
		parent: parent,
	}

	ok := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButton("OK", func() { a.Hide() }),
		layout.NewSpacer(),
	)

	a.container = container.NewBorder(nil, ok, nil, nil, container.NewVBox(rows...))

	return a
}

func (a *About) Hide() {
	if a.d != nil {
		a.d.Hide()
	}
}

func (a *About) Show() {
	a.d = dialog.NewCustomWithoutButtons(a.title, a.container, a.parent)
	a.d.Show()
}

func (a *App) showAbout() {
	prefsPath := "(unknown)"
	if p, ok := a.Service.Prefs.(interface{ Path() string }); ok {
		prefsPath = p.Path()
	}
	NewAbout(a.MainWin, "About",
		widget.NewLabel("A desktop client for the image gallery."),
		widget.NewLabel("API: "+a.Service.Remote.BaseURL()),
		widget.NewLabel("Preferences: "+prefsPath),
		widget.NewLabel("License: MIT"),
	).Show()
}
