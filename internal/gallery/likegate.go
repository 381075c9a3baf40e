package gallery

import (
	"context"
	"strings"
	"sync"

	"fygallery/internal/api"
	"fygallery/internal/validate"
)

const (
	LikeSentMessage    = "Like sent!"
	LikeRemovedMessage = "Like removed"
)

// LikeSource toggles a like for an email.
type LikeSource interface {
	ToggleLike(ctx context.Context, imageID int, email string) (api.LikeResult, error)
}

// LikeGate asks for an email before toggling a like on the target image.
type LikeGate struct {
	source   LikeSource
	loader   *Loader
	view     LikeGateView
	notifier Notifier
	loop     Loop
	logger   LoggerFunc

	mu        sync.Mutex
	target    int
	hasTarget bool
	visible   bool
}

// Open remembers id as the like target and shows an empty, focused prompt.
func (g *LikeGate) Open(id int) error {
	g.mu.Lock()
	g.target = id
	g.hasTarget = true
	g.visible = true
	g.mu.Unlock()

	g.view.ClearEmail()
	g.view.ShowGate()
	g.view.FocusEmail()
	return nil
}

// Close hides the prompt and forgets the target.
func (g *LikeGate) Close() {
	g.mu.Lock()
	g.hasTarget = false
	g.visible = false
	g.mu.Unlock()

	g.view.HideGate()
	g.view.ClearEmail()
}

// Visible reports whether the prompt is showing.
func (g *LikeGate) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

// Target returns the image the next like applies to.
func (g *LikeGate) Target() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target, g.hasTarget
}

// Submit validates email and toggles the like on the target. On success the
// prompt closes and the gallery reloads with the current filters.
func (g *LikeGate) Submit(ctx context.Context, email string) (api.LikeResult, error) {
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		g.loop.Do(func() { g.notifier.Alert(err.Error()) })
		return api.LikeResult{}, err
	}
	id, ok := g.Target()
	if !ok {
		g.loop.Do(func() { g.notifier.Alert(GenericErrorMessage) })
		return api.LikeResult{}, ErrNoLikeTarget
	}
	res, err := g.source.ToggleLike(ctx, id, email)
	if err != nil {
		return api.LikeResult{}, reportSubmitError(g.loop, g.notifier, g.logger, "like", err)
	}
	msg := LikeRemovedMessage
	if res.Liked {
		msg = LikeSentMessage
	}
	g.loop.Do(func() {
		g.notifier.Alert(msg)
		g.Close()
	})
	_ = g.loader.Refresh(ctx)
	return res, nil
}
