// Package config collects the runtime settings shared by the GUI and the CLI.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"fygallery/internal/api"
	"fygallery/internal/gallery"
)

// Environment variables read by FromEnv.
const (
	EnvAPIURL     = "FYGALLERY_API_URL"
	EnvPrefsDir   = "FYGALLERY_PREFS_DIR"
	EnvDebounce   = "FYGALLERY_DEBOUNCE"
	EnvSequencing = "FYGALLERY_SEQUENCED"
)

const (
	DefaultAPIURL      = "http://localhost:5000"
	DefaultRateLimit   = 10.0
	DefaultRateBurst   = 5
	DefaultHTTPTimeout = 15 * time.Second
)

// Settings holds every tunable of a gallery session.
type Settings struct {
	APIURL        string
	UploadsPath   string
	PrefsDir      string // empty means the user config dir
	DebounceDelay time.Duration
	RateLimit     float64 // requests per second, 0 disables
	RateBurst     int
	HTTPTimeout   time.Duration
	Sequencing    bool
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		APIURL:        DefaultAPIURL,
		UploadsPath:   api.DefaultUploadsPath,
		DebounceDelay: gallery.DefaultDebounceDelay,
		RateLimit:     DefaultRateLimit,
		RateBurst:     DefaultRateBurst,
		HTTPTimeout:   DefaultHTTPTimeout,
	}
}

// FromEnv returns Default overridden by the process environment.
func FromEnv() (Settings, error) {
	return Default().WithLookup(os.LookupEnv)
}

// WithLookup applies overrides found through lookup.
func (s Settings) WithLookup(lookup func(string) (string, bool)) (Settings, error) {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		s.APIURL = v
	}
	if v, ok := lookup(EnvPrefsDir); ok && v != "" {
		s.PrefsDir = v
	}
	if v, ok := lookup(EnvDebounce); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("invalid %s %q: %w", EnvDebounce, v, err)
		}
		s.DebounceDelay = d
	}
	if v, ok := lookup(EnvSequencing); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("invalid %s %q: %w", EnvSequencing, v, err)
		}
		s.Sequencing = b
	}
	return s, s.Validate()
}

// Validate checks the settings for values the client cannot work with.
func (s Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", s.APIURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: scheme and host required", s.APIURL)
	}
	if s.DebounceDelay <= 0 {
		return errors.New("debounce delay must be positive")
	}
	if s.RateLimit < 0 || (s.RateLimit > 0 && s.RateBurst <= 0) {
		return errors.New("rate limit needs a positive burst")
	}
	return nil
}

// NewClient builds the API client described by s.
func (s Settings) NewClient(logger api.LoggerFunc) (*api.Client, error) {
	opts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: s.HTTPTimeout}),
		api.WithUploadsPath(s.UploadsPath),
		api.WithLogger(logger),
	}
	if s.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(s.RateLimit, s.RateBurst))
	}
	return api.NewClient(s.APIURL, opts...)
}

// ControllerOptions returns the gallery options implied by s.
func (s Settings) ControllerOptions() gallery.Options {
	return gallery.Options{
		DebounceDelay: s.DebounceDelay,
		Sequencing:    s.Sequencing,
	}
}
