package gallery

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"fygallery/internal/api"
)

// NoImagesMessage is shown in place of the grid when the list is empty.
const NoImagesMessage = "No images found"

// Action is a user gesture on a gallery cell.
type Action int

const (
	ActionOpen Action = iota
	ActionFavorite
	ActionLike
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionFavorite:
		return "favorite"
	case ActionLike:
		return "like"
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// ImageSource lists images and resolves their asset URLs.
type ImageSource interface {
	ListImages(ctx context.Context, search, sort string) ([]api.Image, error)
	AssetURL(filename string) string
}

// FavoriteMarker is the local favorites store as seen by the grid.
type FavoriteMarker interface {
	Toggle(id int, title string) (bool, error)
	Titles() (map[string]bool, error)
}

// CellKey is the dispatch key of the cell for image id.
func CellKey(id int) string {
	return "cell-" + strconv.Itoa(id)
}

type cellHandlers map[Action]func() error

// Loader fetches the filtered list and renders it into the grid. Each
// render rebuilds a dispatch table from cell key to handlers, so the view
// never embeds executable text.
type Loader struct {
	session   *Session
	source    ImageSource
	favorites FavoriteMarker
	view      GalleryView
	loop      Loop
	escape    Escaper
	logger    LoggerFunc

	open     func(id int) error
	like     func(id int) error
	replaced func(activeIndex int, wasActive bool)

	sequencing bool
	issued     atomic.Uint64

	mu       sync.Mutex
	handlers map[string]cellHandlers
}

func (l *Loader) logMessage(format string, args ...interface{}) {
	logWith(l.logger, format, args...)
}

// Reload requests the list for search and sort and renders it once the
// response arrives. Responses are applied in arrival order unless the
// controller was built with sequencing, in which case a response older than
// the newest issued request is dropped. Failures are logged and the grid is
// left unchanged.
func (l *Loader) Reload(ctx context.Context, search string, sort SortMode) error {
	token := l.issued.Add(1)
	images, err := l.source.ListImages(ctx, search, string(sort))
	if err != nil {
		l.logMessage("Error loading images: %v", err)
		return err
	}
	l.loop.Do(func() {
		if l.sequencing && token != l.issued.Load() {
			l.logMessage("Dropping stale image list (request %d, latest %d)", token, l.issued.Load())
			return
		}
		l.render(images)
	})
	return nil
}

// Refresh reloads with the session's current filters.
func (l *Loader) Refresh(ctx context.Context) error {
	search, sort := l.session.Filters()
	return l.Reload(ctx, search, sort)
}

// render runs on the loop.
func (l *Loader) render(images []api.Image) {
	cells := make([]Cell, 0, len(images))
	handlers := make(map[string]cellHandlers, len(images))
	for _, img := range images {
		key := CellKey(img.ID)
		cells = append(cells, Cell{
			Key:               key,
			ImageID:           img.ID,
			Title:             img.Title,
			TitleMarkup:       l.escape(img.Title),
			DescriptionMarkup: l.escape(img.Description),
			FilenameMarkup:    l.escape(img.Filename),
			Filename:          img.Filename,
			Source:            l.source.AssetURL(img.Filename),
			Likes:             strconv.Itoa(img.Likes),
		})
		handlers[key] = l.handlersFor(key, img.ID, img.Title)
	}

	l.mu.Lock()
	l.handlers = handlers
	l.mu.Unlock()

	activeIndex, wasActive := l.session.replaceItems(images)
	if len(cells) == 0 {
		l.view.ShowEmpty(NoImagesMessage)
	} else {
		l.view.ShowCells(cells)
		l.markFavorites(cells)
	}
	if l.replaced != nil {
		l.replaced(activeIndex, wasActive)
	}
}

func (l *Loader) handlersFor(key string, id int, title string) cellHandlers {
	return cellHandlers{
		ActionOpen: func() error {
			if l.open == nil {
				return nil
			}
			return l.open(id)
		},
		ActionFavorite: func() error {
			if l.favorites == nil {
				return nil
			}
			on, err := l.favorites.Toggle(id, title)
			if err != nil {
				l.logMessage("Error saving favorite %d: %v", id, err)
				return err
			}
			l.view.SetFavorite(key, on)
			return nil
		},
		ActionLike: func() error {
			if l.like == nil {
				return nil
			}
			return l.like(id)
		},
	}
}

func (l *Loader) markFavorites(cells []Cell) {
	if l.favorites == nil {
		return
	}
	titles, err := l.favorites.Titles()
	if err != nil {
		l.logMessage("Error reading favorites: %v", err)
		return
	}
	for _, c := range cells {
		if titles[c.Title] {
			l.view.SetFavorite(c.Key, true)
		}
	}
}

// Dispatch runs the handler for action on the cell with key. It must be
// called on the loop.
func (l *Loader) Dispatch(key string, action Action) error {
	l.mu.Lock()
	h, ok := l.handlers[key]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCell, key)
	}
	fn, ok := h[action]
	if !ok {
		return fmt.Errorf("%w: %s has no %s handler", ErrUnknownCell, key, action)
	}
	return fn()
}

// Keys returns the cell keys of the last render, in grid order.
func (l *Loader) Keys() []string {
	items := l.session.Items()
	keys := make([]string, 0, len(items))
	for _, img := range items {
		keys = append(keys, CellKey(img.ID))
	}
	return keys
}
