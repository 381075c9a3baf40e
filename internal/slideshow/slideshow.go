// Package slideshow manages the automatic cycling of the lightbox.
package slideshow

import (
	"sync"
	"time"
)

const (
	DefaultInterval = 3 * time.Second
)

// SlideshowManager calls advance every interval while playing.
type SlideshowManager struct {
	mu       sync.Mutex
	interval time.Duration
	advance  func()
	stop     chan struct{}
}

// NewSlideshowManager creates a stopped manager.
// Interval is the time between automatic transitions.
func NewSlideshowManager(interval time.Duration, advance func()) *SlideshowManager {
	if interval <= 0 {
		interval = DefaultInterval // Default interval if invalid
	}
	return &SlideshowManager{interval: interval, advance: advance}
}

// Play starts the timer. It does nothing when already playing.
func (sm *SlideshowManager) Play() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.stop != nil {
		return
	}
	stop := make(chan struct{})
	sm.stop = stop
	go sm.run(stop, sm.interval)
}

func (sm *SlideshowManager) run(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			sm.advance()
		}
	}
}

// Pause stops the timer. It is safe to call from advance.
func (sm *SlideshowManager) Pause() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.stop != nil {
		close(sm.stop)
		sm.stop = nil
	}
}

// TogglePlayPause flips between playing and paused and reports whether it
// is now playing.
func (sm *SlideshowManager) TogglePlayPause() bool {
	if sm.IsPlaying() {
		sm.Pause()
		return false
	}
	sm.Play()
	return true
}

// IsPlaying returns true while the timer runs.
func (sm *SlideshowManager) IsPlaying() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.stop != nil
}

// Interval returns the configured slideshow interval.
func (sm *SlideshowManager) Interval() time.Duration {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.interval
}
