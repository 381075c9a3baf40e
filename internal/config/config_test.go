package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	s := Default()
	assert.Equal(t, "http://localhost:5000", s.APIURL)
	assert.Equal(t, "/uploads/", s.UploadsPath)
	assert.Equal(t, 300*time.Millisecond, s.DebounceDelay)
	assert.Equal(t, 15*time.Second, s.HTTPTimeout)
	assert.False(t, s.Sequencing)
	assert.NoError(t, s.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	s, err := Default().WithLookup(lookupFrom(map[string]string{
		EnvAPIURL:     "https://gallery.example.com",
		EnvPrefsDir:   "/tmp/prefs",
		EnvDebounce:   "50ms",
		EnvSequencing: "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://gallery.example.com", s.APIURL)
	assert.Equal(t, "/tmp/prefs", s.PrefsDir)
	assert.Equal(t, 50*time.Millisecond, s.DebounceDelay)
	assert.True(t, s.Sequencing)

	opts := s.ControllerOptions()
	assert.Equal(t, 50*time.Millisecond, opts.DebounceDelay)
	assert.True(t, opts.Sequencing)
}

func TestEmptyEnvironmentKeepsDefaults(t *testing.T) {
	s, err := Default().WithLookup(lookupFrom(map[string]string{EnvAPIURL: ""}))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, s.APIURL)
}

func TestInvalidSettings(t *testing.T) {
	_, err := Default().WithLookup(lookupFrom(map[string]string{EnvDebounce: "soon"}))
	assert.Error(t, err)
	_, err = Default().WithLookup(lookupFrom(map[string]string{EnvSequencing: "maybe"}))
	assert.Error(t, err)
	_, err = Default().WithLookup(lookupFrom(map[string]string{EnvAPIURL: "localhost"}))
	assert.Error(t, err)

	s := Default()
	s.RateBurst = 0
	assert.Error(t, s.Validate())
	s = Default()
	s.DebounceDelay = 0
	assert.Error(t, s.Validate())
}

func TestNewClient(t *testing.T) {
	s := Default()
	s.APIURL = "http://example.com:8080"
	s.UploadsPath = "/static/"
	c, err := s.NewClient(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080/static/a.jpg", c.AssetURL("a.jpg"))
}
