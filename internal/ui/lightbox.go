package ui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync/atomic"

	"fygallery/internal/gallery"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// lightboxWindow is the viewer window. It implements gallery.LightboxView
// and, for its comments column, gallery.CommentsView.
type lightboxWindow struct {
	a   *App
	win fyne.Window

	area        *ZoomPanArea
	title       *widget.Label
	description *widget.Label
	likes       *widget.Label
	position    *widget.Label
	zoomLabel   *widget.Label
	info        *widget.RichText
	prevBtn     *widget.Button
	nextBtn     *widget.Button
	playBtn     *widget.Button
	slides      *slideshow.SlideshowManager

	commentList *fyne.Container
	emailEntry  *widget.Entry
	textEntry   *widget.Entry

	shown   bool
	loadSeq atomic.Uint64
}

var (
	_ gallery.LightboxView = (*lightboxWindow)(nil)
	_ gallery.CommentsView = (*lightboxWindow)(nil)
)

func newLightboxWindow(a *App) *lightboxWindow {
	lb := &lightboxWindow{a: a, win: a.app.NewWindow("Image")}
	lb.area = NewZoomPanArea(func(zoomIn bool) {
		if zoomIn {
			_ = a.ctl.Lightbox.ZoomIn()
		} else {
			_ = a.ctl.Lightbox.ZoomOut()
		}
	})
	lb.title = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	lb.description = widget.NewLabel("")
	lb.description.Wrapping = fyne.TextWrapWord
	lb.likes = widget.NewLabel("")
	lb.position = widget.NewLabel("")
	lb.zoomLabel = widget.NewLabel("100%")
	lb.info = widget.NewRichTextFromMarkdown("")

	lb.prevBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { _ = a.ctl.Lightbox.Previous() })
	lb.nextBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { _ = a.ctl.Lightbox.Next() })
	lb.slides = slideshow.NewSlideshowManager(a.slideshowInterval, func() { a.do(lb.slideshowStep) })
	lb.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), lb.togglePlay)
	toolbar := container.NewHBox(
		lb.prevBtn,
		lb.playBtn,
		lb.nextBtn,
		widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { _ = a.ctl.Lightbox.ZoomOut() }),
		lb.zoomLabel,
		widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { _ = a.ctl.Lightbox.ZoomIn() }),
		widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), func() { _ = a.ctl.Lightbox.ToggleFullscreen() }),
		widget.NewButtonWithIcon("", theme.DownloadIcon(), lb.download),
		widget.NewButtonWithIcon("", theme.MailForwardIcon(), func() { _, _ = a.ctl.Lightbox.Share() }),
		widget.NewButton("♥ Like", lb.like),
		lb.position,
		widget.NewButtonWithIcon("", theme.CancelIcon(), func() { a.ctl.Lightbox.Close() }),
	)

	lb.commentList = container.NewVBox()
	lb.emailEntry = widget.NewEntry()
	lb.emailEntry.SetPlaceHolder("you@domain.com")
	lb.textEntry = widget.NewMultiLineEntry()
	lb.textEntry.SetPlaceHolder("Write a comment...")
	lb.textEntry.SetMinRowsVisible(3)
	publish := widget.NewButton("Publish", lb.publish)

	details := container.NewVBox(lb.title, lb.description, lb.likes, widget.NewSeparator(), lb.info)
	form := container.NewVBox(widget.NewLabel("Comments"), lb.emailEntry, lb.textEntry, publish)
	side := container.NewBorder(details, form, nil, nil, container.NewVScroll(lb.commentList))

	split := container.NewHSplit(lb.area, side)
	split.SetOffset(0.7)
	lb.win.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
	lb.win.Resize(fyne.NewSize(1100, 750))
	lb.win.SetCloseIntercept(func() { a.ctl.Lightbox.Close() })
	lb.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeySpace {
			lb.togglePlay()
			return
		}
		if ev.Name == fyne.KeyEscape && a.dismissOverlay(lb.win.Canvas()) {
			return
		}
		if k, ok := lightboxKey(ev.Name); ok {
			a.ctl.Lightbox.HandleKey(k)
		}
	})
	return lb
}

func (lb *lightboxWindow) ShowViewer(v gallery.Viewer) {
	lb.title.SetText(v.Title)
	lb.description.SetText(v.Description)
	lb.likes.SetText("♥ " + v.Likes)
	lb.SetPosition(v.Position, v.Total)
	lb.win.SetTitle(v.Title)
	lb.info.ParseMarkdown("")
	lb.area.SetImage(nil)
	lb.loadImage(v.Filename)
	if !lb.shown {
		lb.shown = true
		lb.win.Show()
	}
}

// loadImage fetches and decodes the asset off the UI thread. Only the most
// recent request may update the area.
func (lb *lightboxWindow) loadImage(filename string) {
	seq := lb.loadSeq.Add(1)
	svc := lb.a.Service
	go func() {
		data, err := svc.Remote.FetchAsset(context.Background(), filename)
		if err != nil {
			lb.a.logf("Error loading %s: %v", filename, err)
			return
		}
		info, img, err := svc.Images.Decode(data)
		if err != nil {
			lb.a.logf("Error decoding %s: %v", filename, err)
			return
		}
		lb.a.loop.Do(func() {
			if lb.loadSeq.Load() != seq {
				return
			}
			lb.showImage(img, info)
		})
	}()
}

func (lb *lightboxWindow) showImage(img image.Image, info *service.ImageInfo) {
	lb.area.SetImage(img)
	lb.info.ParseMarkdown(infoMarkdown(info))
}

func infoMarkdown(info *service.ImageInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Size:** %d x %d px, %s bytes\n\n", info.Width, info.Height, formatNumberWithCommas(info.Size))
	if len(info.EXIFData) == 0 {
		return b.String()
	}
	b.WriteString("**EXIF**\n\n")
	for _, k := range info.EXIFKeys() {
		fmt.Fprintf(&b, "- %s: %s\n", k, gallery.MarkdownEscaper(info.EXIFData[k]))
	}
	return b.String()
}

// formatNumberWithCommas takes an integer and returns a string representation
// with commas as thousands separators.
func formatNumberWithCommas(n int64) string {
	s := fmt.Sprintf("%d", n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}

func (lb *lightboxWindow) SetZoom(scale float64) {
	lb.area.SetScale(float32(scale))
	lb.zoomLabel.SetText(fmt.Sprintf("%.0f%%", scale*100))
}

func (lb *lightboxWindow) SetFullscreen(on bool) {
	lb.win.SetFullScreen(on)
}

func (lb *lightboxWindow) SetPosition(position, total int) {
	lb.position.SetText(fmt.Sprintf("%d / %d", position+1, total))
}

func (lb *lightboxWindow) SetNavigation(hasPrevious, hasNext bool) {
	setEnabled(lb.prevBtn, hasPrevious)
	setEnabled(lb.nextBtn, hasNext)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (lb *lightboxWindow) HideViewer() {
	lb.stopSlideshow()
	lb.loadSeq.Add(1)
	lb.shown = false
	lb.win.SetFullScreen(false)
	lb.win.Hide()
	lb.area.SetImage(nil)
}

func (lb *lightboxWindow) togglePlay() {
	if lb.slides.TogglePlayPause() {
		lb.playBtn.SetIcon(theme.MediaPauseIcon())
		return
	}
	lb.playBtn.SetIcon(theme.MediaPlayIcon())
}

func (lb *lightboxWindow) stopSlideshow() {
	lb.slides.Pause()
	lb.playBtn.SetIcon(theme.MediaPlayIcon())
}

// slideshowStep advances one image and stops at the end of the list.
func (lb *lightboxWindow) slideshowStep() {
	if !lb.slides.IsPlaying() {
		return
	}
	idx, _, ok := lb.a.ctl.Session.Active()
	if !ok || idx >= lb.a.ctl.Session.Len()-1 {
		lb.stopSlideshow()
		return
	}
	_ = lb.a.ctl.Lightbox.Next()
}

func commentMarkdown(r gallery.CommentRow) string {
	return fmt.Sprintf("**%s** · %s\n\n%s", r.EmailMarkup, r.Date, r.TextMarkup)
}

func (lb *lightboxWindow) ShowComments(rows []gallery.CommentRow) {
	objects := make([]fyne.CanvasObject, 0, len(rows))
	for _, r := range rows {
		rt := widget.NewRichTextFromMarkdown(commentMarkdown(r))
		rt.Wrapping = fyne.TextWrapWord
		objects = append(objects, rt)
	}
	lb.commentList.Objects = objects
	lb.commentList.Refresh()
}

func (lb *lightboxWindow) ShowNoComments(message string) {
	lb.commentList.Objects = []fyne.CanvasObject{widget.NewLabel(message)}
	lb.commentList.Refresh()
}

func (lb *lightboxWindow) ClearComments() {
	lb.commentList.Objects = nil
	lb.commentList.Refresh()
}

func (lb *lightboxWindow) ClearInput() {
	lb.emailEntry.SetText("")
	lb.textEntry.SetText("")
}

func (lb *lightboxWindow) publish() {
	email, text := lb.emailEntry.Text, lb.textEntry.Text
	lb.a.run(func() { _ = lb.a.ctl.Comments.Submit(context.Background(), email, text) })
}

func (lb *lightboxWindow) like() {
	if _, id, ok := lb.a.ctl.Session.Active(); ok {
		_ = lb.a.ctl.LikeGate.Open(id)
	}
}

func (lb *lightboxWindow) download() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, lb.win)
			return
		}
		if dir == nil {
			return
		}
		target := dir.Path()
		lb.a.run(func() {
			path, err := lb.a.ctl.Lightbox.Download(context.Background(), target)
			lb.a.loop.Do(func() {
				if err != nil {
					dialog.ShowError(fmt.Errorf("download failed: %w", err), lb.win)
					return
				}
				dialog.ShowInformation("Download", "Saved to "+path, lb.win)
			})
		})
	}, lb.win)
}

// lightboxKey maps Fyne key names to the controller's keys.
func lightboxKey(name fyne.KeyName) (gallery.Key, bool) {
	switch name {
	case fyne.KeyLeft:
		return gallery.KeyLeft, true
	case fyne.KeyRight:
		return gallery.KeyRight, true
	case fyne.KeyEscape:
		return gallery.KeyEscape, true
	case fyne.KeyF:
		return gallery.KeyF, true
	}
	return "", false
}
