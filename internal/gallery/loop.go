package gallery

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// GenericErrorMessage is shown when the controller is asked to act without
// the state it needs.
const GenericErrorMessage = "Something went wrong, please try again"

var (
	// ErrNoActiveImage is returned when the lightbox or comments are used while closed.
	ErrNoActiveImage = errors.New("no active image")
	// ErrNoLikeTarget is returned when a like is submitted before the gate was opened.
	ErrNoLikeTarget = errors.New("no image selected for like")
	// ErrUnknownCell is returned when dispatching to a cell that is not rendered.
	ErrUnknownCell = errors.New("unknown gallery cell")
)

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

func logWith(l LoggerFunc, format string, args ...interface{}) {
	if l != nil {
		l(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Loop runs fn on the UI event loop.
type Loop interface {
	Do(fn func())
}

// LoopFunc adapts a function such as fyne.Do to Loop.
type LoopFunc func(fn func())

// Do calls f(fn).
func (f LoopFunc) Do(fn func()) { f(fn) }

// SerialLoop runs each fn inline, one at a time. It stands in for a UI
// thread in tests and headless callers. fn must not call Do again.
type SerialLoop struct {
	mu sync.Mutex
}

// Do runs fn while holding the loop.
func (l *SerialLoop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Runner starts work that must not block the event loop.
type Runner func(fn func())

// GoRunner runs fn on a new goroutine.
func GoRunner(fn func()) { go fn() }

// InlineRunner runs fn on the calling goroutine.
func InlineRunner(fn func()) { fn() }
