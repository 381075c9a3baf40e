package gallery

import (
	"sync"

	"fygallery/internal/api"
)

// SortMode is the server-side ordering of the list. It is sent verbatim.
type SortMode string

const (
	SortRecent SortMode = "recent"
	SortLikes  SortMode = "likes"
	SortOldest SortMode = "oldest"
)

// SortModes lists the modes the server understands, in display order.
func SortModes() []SortMode {
	return []SortMode{SortRecent, SortLikes, SortOldest}
}

// Valid reports whether m is one of SortModes.
func (m SortMode) Valid() bool {
	for _, known := range SortModes() {
		if m == known {
			return true
		}
	}
	return false
}

// Session is the gallery's shared state: the last fetched list, the image
// open in the lightbox and the current filter inputs. Only the Loader
// replaces the list; only the Lightbox moves the active position.
type Session struct {
	mu          sync.RWMutex
	items       []api.Image
	activeIndex int // -1 when the lightbox is closed
	activeID    int
	search      string
	sort        SortMode
}

// NewSession creates an empty session sorted by most recent.
func NewSession() *Session {
	return &Session{activeIndex: -1, sort: SortRecent}
}

// Items returns a copy of the current list.
func (s *Session) Items() []api.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Image(nil), s.items...)
}

// Len returns the number of images in the list.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ImageAt returns the image at index i.
func (s *Session) ImageAt(i int) (api.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return api.Image{}, false
	}
	return s.items[i], true
}

// IndexOf returns the position of id in the list, or -1.
func (s *Session) IndexOf(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOfLocked(id)
}

func (s *Session) indexOfLocked(id int) int {
	for i, img := range s.items {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// Active returns the lightbox position and image id, ok is false when closed.
func (s *Session) Active() (index, id int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeIndex < 0 {
		return -1, 0, false
	}
	return s.activeIndex, s.activeID, true
}

// ActiveImage returns the image open in the lightbox.
func (s *Session) ActiveImage() (api.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeIndex < 0 || s.activeIndex >= len(s.items) {
		return api.Image{}, false
	}
	return s.items[s.activeIndex], true
}

// Filters returns the current search text and sort mode.
func (s *Session) Filters() (string, SortMode) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search, s.sort
}

func (s *Session) setSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = text
}

func (s *Session) setSort(mode SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = mode
}

// replaceItems swaps in a fresh list. When an image is active its position
// is looked up again by id; the returned index is -1 when it is gone.
func (s *Session) replaceItems(items []api.Image) (activeIndex int, wasActive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	if s.activeIndex < 0 {
		return -1, false
	}
	idx := s.indexOfLocked(s.activeID)
	if idx >= 0 {
		s.activeIndex = idx
	}
	return idx, true
}

func (s *Session) setActive(index, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeIndex = index
	s.activeID = id
}

func (s *Session) clearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeIndex = -1
	s.activeID = 0
}
