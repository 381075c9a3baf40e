package gallery

import (
	"context"
	"time"

	"fygallery/internal/debounce"
)

// Remote is everything the controller needs from the server.
type Remote interface {
	ImageSource
	CommentSource
	LikeSource
	AssetFetcher
}

// Options tunes a Controller. Zero values pick the defaults.
type Options struct {
	// Loop applies network results; defaults to a SerialLoop.
	Loop Loop
	// Runner starts background work from loop methods; defaults to GoRunner.
	Runner Runner
	// DebounceDelay defaults to DefaultDebounceDelay.
	DebounceDelay time.Duration
	// Escaper defaults to HTMLEscaper.
	Escaper Escaper
	// DateLayout formats comment dates; defaults to DefaultCommentDateLayout.
	DateLayout string
	// Sequencing drops list responses older than the newest request.
	Sequencing bool
	// Share lists the share methods in the order they are tried.
	Share  []ShareStrategy
	Logger LoggerFunc
}

// Controller wires the gallery components around one Session.
type Controller struct {
	Session  *Session
	Loader   *Loader
	Filter   *SearchFilter
	Lightbox *Lightbox
	Comments *CommentsPanel
	LikeGate *LikeGate
}

// New builds a controller talking to remote and drawing into views.
func New(remote Remote, favs FavoriteMarker, views Views, opts Options) *Controller {
	if opts.Loop == nil {
		opts.Loop = &SerialLoop{}
	}
	if opts.Runner == nil {
		opts.Runner = GoRunner
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = DefaultDebounceDelay
	}
	if opts.Escaper == nil {
		opts.Escaper = HTMLEscaper
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultCommentDateLayout
	}

	session := NewSession()
	loader := &Loader{
		session:    session,
		source:     remote,
		favorites:  favs,
		view:       views.Gallery,
		loop:       opts.Loop,
		escape:     opts.Escaper,
		logger:     opts.Logger,
		sequencing: opts.Sequencing,
	}
	comments := &CommentsPanel{
		session:    session,
		source:     remote,
		view:       views.Comments,
		notifier:   views.Notifier,
		loop:       opts.Loop,
		escape:     opts.Escaper,
		dateLayout: opts.DateLayout,
		logger:     opts.Logger,
	}
	lightbox := &Lightbox{
		session:  session,
		view:     views.Lightbox,
		comments: comments,
		notifier: views.Notifier,
		source:   remote,
		assets:   remote,
		share:    NewShareChain(opts.Logger, opts.Share...),
		run:      opts.Runner,
		logger:   opts.Logger,
		zoom:     MinZoom,
	}
	gate := &LikeGate{
		source:   remote,
		loader:   loader,
		view:     views.LikeGate,
		notifier: views.Notifier,
		loop:     opts.Loop,
		logger:   opts.Logger,
	}
	filter := &SearchFilter{
		session:   session,
		loader:    loader,
		view:      views.Sort,
		run:       opts.Runner,
		debouncer: debounce.New(),
		delay:     opts.DebounceDelay,
		logger:    opts.Logger,
	}

	loader.open = lightbox.OpenAt
	loader.like = gate.Open
	loader.replaced = lightbox.listReplaced

	return &Controller{
		Session:  session,
		Loader:   loader,
		Filter:   filter,
		Lightbox: lightbox,
		Comments: comments,
		LikeGate: gate,
	}
}

// Start loads the initial list with the default filters.
func (c *Controller) Start(ctx context.Context) error {
	search, sort := c.Session.Filters()
	if c.Filter.view != nil {
		c.Loader.loop.Do(func() { c.Filter.view.SetActiveSort(sort) })
	}
	return c.Loader.Reload(ctx, search, sort)
}
