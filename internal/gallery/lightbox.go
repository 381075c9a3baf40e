package gallery

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"fygallery/internal/api"
)

const (
	// ZoomStep is added or removed by one zoom action.
	ZoomStep = 0.2
	// MinZoom is the smallest scale; there is no upper bound.
	MinZoom = 1.0
)

// Key is a keyboard key as reported by the view.
type Key string

const (
	KeyLeft   Key = "Left"
	KeyRight  Key = "Right"
	KeyEscape Key = "Escape"
	KeyF      Key = "F"
)

// AssetFetcher downloads an uploaded file.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, filename string) ([]byte, error)
}

// Lightbox is the modal viewer state machine. It is Closed until OpenAt
// succeeds and stays Open, with a zoom scale and fullscreen flag, until Close.
type Lightbox struct {
	session  *Session
	view     LightboxView
	comments *CommentsPanel
	notifier Notifier
	source   ImageSource
	assets   AssetFetcher
	share    *ShareChain
	run      Runner
	logger   LoggerFunc

	mu         sync.Mutex
	open       bool
	zoom       float64
	fullscreen bool
}

func (lb *Lightbox) logMessage(format string, args ...interface{}) {
	logWith(lb.logger, format, args...)
}

// IsOpen reports whether the viewer is showing.
func (lb *Lightbox) IsOpen() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.open
}

// Zoom returns the current scale.
func (lb *Lightbox) Zoom() float64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.zoom
}

// Fullscreen reports whether fullscreen is on.
func (lb *Lightbox) Fullscreen() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.fullscreen
}

// OpenAt shows the image with id. Ids not in the current list are ignored.
func (lb *Lightbox) OpenAt(id int) error {
	idx := lb.session.IndexOf(id)
	if idx < 0 {
		lb.logMessage("Image %d is not in the current list", id)
		return nil
	}
	lb.show(idx)
	return nil
}

// show activates position idx: zoom and fullscreen reset, viewer fields and
// navigation refresh, and the comments for the image start loading.
func (lb *Lightbox) show(idx int) {
	img, ok := lb.session.ImageAt(idx)
	if !ok {
		return
	}
	total := lb.session.Len()
	lb.session.setActive(idx, img.ID)

	lb.mu.Lock()
	lb.open = true
	lb.zoom = MinZoom
	lb.fullscreen = false
	lb.mu.Unlock()

	lb.view.ShowViewer(Viewer{
		ImageID:     img.ID,
		Filename:    img.Filename,
		Source:      lb.source.AssetURL(img.Filename),
		Title:       img.Title,
		Description: img.Description,
		Likes:       strconv.Itoa(img.Likes),
		Position:    idx,
		Total:       total,
	})
	lb.view.SetZoom(MinZoom)
	lb.view.SetFullscreen(false)
	lb.view.SetNavigation(idx > 0, idx < total-1)

	if lb.comments != nil {
		lb.comments.Reset()
		id := img.ID
		lb.run(func() {
			_ = lb.comments.Load(context.Background(), id)
		})
	}
}

func (lb *Lightbox) navigate(delta int) error {
	idx, _, ok := lb.session.Active()
	if !ok {
		lb.notifier.Alert(GenericErrorMessage)
		return ErrNoActiveImage
	}
	next := idx + delta
	if next < 0 || next >= lb.session.Len() {
		return nil
	}
	lb.show(next)
	return nil
}

// Next moves to the following image. It does nothing on the last image.
func (lb *Lightbox) Next() error { return lb.navigate(1) }

// Previous moves to the preceding image. It does nothing on the first image.
func (lb *Lightbox) Previous() error { return lb.navigate(-1) }

func roundZoom(z float64) float64 {
	return math.Round(z*10) / 10
}

// ZoomIn enlarges the image by one step.
func (lb *Lightbox) ZoomIn() error {
	lb.mu.Lock()
	if !lb.open {
		lb.mu.Unlock()
		return ErrNoActiveImage
	}
	lb.zoom = roundZoom(lb.zoom + ZoomStep)
	z := lb.zoom
	lb.mu.Unlock()
	lb.view.SetZoom(z)
	return nil
}

// ZoomOut shrinks the image by one step, never below MinZoom.
func (lb *Lightbox) ZoomOut() error {
	lb.mu.Lock()
	if !lb.open {
		lb.mu.Unlock()
		return ErrNoActiveImage
	}
	if lb.zoom <= MinZoom {
		lb.mu.Unlock()
		return nil
	}
	lb.zoom = math.Max(MinZoom, roundZoom(lb.zoom-ZoomStep))
	z := lb.zoom
	lb.mu.Unlock()
	lb.view.SetZoom(z)
	return nil
}

// ToggleFullscreen flips the fullscreen flag.
func (lb *Lightbox) ToggleFullscreen() error {
	lb.mu.Lock()
	if !lb.open {
		lb.mu.Unlock()
		return ErrNoActiveImage
	}
	lb.fullscreen = !lb.fullscreen
	on := lb.fullscreen
	lb.mu.Unlock()
	lb.view.SetFullscreen(on)
	return nil
}

// Close hides the viewer and clears the active image.
func (lb *Lightbox) Close() {
	lb.mu.Lock()
	if !lb.open {
		lb.mu.Unlock()
		return
	}
	lb.open = false
	lb.zoom = MinZoom
	lb.fullscreen = false
	lb.mu.Unlock()

	lb.session.clearActive()
	lb.view.HideViewer()
}

// HandleKey maps a key press to an action while the viewer is open and
// reports whether it was consumed.
func (lb *Lightbox) HandleKey(k Key) bool {
	if !lb.IsOpen() {
		return false
	}
	switch {
	case k == KeyLeft:
		_ = lb.Previous()
	case k == KeyRight:
		_ = lb.Next()
	case k == KeyEscape:
		lb.Close()
	case strings.EqualFold(string(k), string(KeyF)):
		_ = lb.ToggleFullscreen()
	default:
		return false
	}
	return true
}

// listReplaced keeps the active position pointing at the same image after
// the loader swaps the list, and closes the viewer if the image is gone.
func (lb *Lightbox) listReplaced(activeIndex int, wasActive bool) {
	if !wasActive || !lb.IsOpen() {
		return
	}
	if activeIndex < 0 {
		lb.logMessage("Active image left the list, closing viewer")
		lb.Close()
		return
	}
	total := lb.session.Len()
	lb.view.SetPosition(activeIndex, total)
	lb.view.SetNavigation(activeIndex > 0, activeIndex < total-1)
}

// Download saves the active image into dir and returns the written path.
func (lb *Lightbox) Download(ctx context.Context, dir string) (string, error) {
	img, ok := lb.session.ActiveImage()
	if !ok {
		return "", ErrNoActiveImage
	}
	data, err := lb.assets.FetchAsset(ctx, img.Filename)
	if err != nil {
		lb.logMessage("Error downloading %s: %v", img.Filename, err)
		return "", err
	}
	path := filepath.Join(dir, DownloadName(img))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	lb.logMessage("Saved %s", path)
	return path, nil
}

// DownloadName is the local file name for img. It keeps only the last path
// element of the uploaded name and falls back to image-<id>.
func DownloadName(img api.Image) string {
	name := filepath.Base(filepath.Clean("/" + img.Filename))
	if name == "/" || name == "." {
		name = "image-" + strconv.Itoa(img.ID)
	}
	return name
}

// Share offers the active image through the first share method that works.
func (lb *Lightbox) Share() (string, error) {
	img, ok := lb.session.ActiveImage()
	if !ok {
		lb.notifier.Alert(GenericErrorMessage)
		return "", ErrNoActiveImage
	}
	item := ShareItem{
		Title: img.Title,
		Text:  fmt.Sprintf("Check out %q in the gallery!", img.Title),
		URL:   lb.source.AssetURL(img.Filename),
	}
	method, err := lb.share.Share(item)
	if err != nil {
		lb.logMessage("Share failed: %v", err)
		lb.notifier.Alert(GenericErrorMessage)
		return "", err
	}
	if method == ShareMethodClipboard {
		lb.notifier.Alert(ShareCopiedMessage)
	}
	return method, nil
}
