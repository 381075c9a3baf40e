package slideshow

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlideshowManagerDefaultsInterval(t *testing.T) {
	sm := NewSlideshowManager(0, func() {})
	assert.Equal(t, DefaultInterval, sm.Interval())
	assert.False(t, sm.IsPlaying())
}

func TestPlayAdvancesUntilPaused(t *testing.T) {
	var ticks atomic.Int32
	sm := NewSlideshowManager(5*time.Millisecond, func() { ticks.Add(1) })

	sm.Play()
	sm.Play() // second call keeps the single timer
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	sm.Pause()
	assert.False(t, sm.IsPlaying())
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), stopped+1, "at most one tick was in flight")
}

func TestPauseFromAdvance(t *testing.T) {
	var sm *SlideshowManager
	var ticks atomic.Int32
	sm = NewSlideshowManager(5*time.Millisecond, func() {
		ticks.Add(1)
		sm.Pause()
	})

	sm.Play()
	require.Eventually(t, func() bool { return !sm.IsPlaying() }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), ticks.Load())
}

func TestTogglePlayPause(t *testing.T) {
	sm := NewSlideshowManager(time.Hour, func() {})
	assert.True(t, sm.TogglePlayPause())
	assert.True(t, sm.IsPlaying())
	assert.False(t, sm.TogglePlayPause())
	assert.False(t, sm.IsPlaying())
}
