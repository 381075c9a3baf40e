package gallery

import (
	"context"
	"time"

	"fygallery/internal/debounce"
)

// DefaultDebounceDelay is the quiet period after the last keystroke before
// a search is sent.
const DefaultDebounceDelay = 300 * time.Millisecond

// SearchFilter turns search input and sort selection into list reloads.
type SearchFilter struct {
	session   *Session
	loader    *Loader
	view      SortView
	run       Runner
	debouncer *debounce.Debouncer
	delay     time.Duration
	logger    LoggerFunc
}

// QueryChanged records the new search text and schedules a reload once the
// input has been quiet for the debounce delay. A later keystroke replaces the
// pending reload.
func (f *SearchFilter) QueryChanged(text string) {
	f.session.setSearch(text)
	f.debouncer.Schedule(func() {
		search, sort := f.session.Filters()
		_ = f.loader.Reload(context.Background(), search, sort)
	}, f.delay)
}

// SortSelected switches the sort mode, highlights it and reloads
// immediately. A pending debounced reload is dropped since this one already
// carries the latest text.
func (f *SearchFilter) SortSelected(mode SortMode) {
	if !mode.Valid() {
		logWith(f.logger, "Unknown sort mode %q, sending as is", mode)
	}
	f.session.setSort(mode)
	if f.view != nil {
		f.view.SetActiveSort(mode)
	}
	f.debouncer.CancelPending()
	search := f.Query()
	f.run(func() {
		_ = f.loader.Reload(context.Background(), search, mode)
	})
}

// Query returns the current search text.
func (f *SearchFilter) Query() string {
	search, _ := f.session.Filters()
	return search
}

// Sort returns the current sort mode.
func (f *SearchFilter) Sort() SortMode {
	_, sort := f.session.Filters()
	return sort
}

// Pending reports whether a debounced reload is waiting to fire.
func (f *SearchFilter) Pending() bool {
	return f.debouncer.Pending()
}
