package ui

import (
	"context"

	"fygallery/internal/gallery"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// likeGateDialog asks for an email before a like is sent.
type likeGateDialog struct {
	a       *App
	email   *widget.Entry
	content fyne.CanvasObject
	d       dialog.Dialog
	parent  fyne.Window
}

var _ gallery.LikeGateView = (*likeGateDialog)(nil)

func newLikeGateDialog(a *App) *likeGateDialog {
	g := &likeGateDialog{a: a, email: widget.NewEntry()}
	g.email.SetPlaceHolder("you@domain.com")
	g.email.OnSubmitted = func(string) { g.submit() }
	g.content = container.NewVBox(
		widget.NewLabel("Enter your email to like this image"),
		g.email,
		container.NewHBox(
			layout.NewSpacer(),
			widget.NewButton("Cancel", func() { a.ctl.LikeGate.Close() }),
			widget.NewButton("Like", g.submit),
		),
	)
	return g
}

func (g *likeGateDialog) submit() {
	email := g.email.Text
	g.a.run(func() { _, _ = g.a.ctl.LikeGate.Submit(context.Background(), email) })
}

func (g *likeGateDialog) ShowGate() {
	g.parent = g.a.activeWindow()
	g.d = dialog.NewCustomWithoutButtons("Like", g.content, g.parent)
	g.d.Resize(fyne.NewSize(360, 0))
	g.d.Show()
}

func (g *likeGateDialog) HideGate() {
	if g.d != nil {
		g.d.Hide()
		g.d = nil
	}
}

func (g *likeGateDialog) ClearEmail() {
	g.email.SetText("")
}

func (g *likeGateDialog) FocusEmail() {
	if g.parent != nil {
		g.parent.Canvas().Focus(g.email)
	}
}

// dialogNotifier shows controller alerts on whichever window is in front.
type dialogNotifier struct{ a *App }

func (n dialogNotifier) Alert(message string) {
	n.a.addLogMessage(message)
	dialog.ShowInformation("Gallery", message, n.a.activeWindow())
}
