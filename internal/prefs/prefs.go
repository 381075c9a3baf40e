// Package prefs provides a small durable key/value store for client preferences
// backed by a BoltDB file. It survives across sessions and holds the theme flag
// and the favorites set.
package prefs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	openTimeout       = 2 * time.Second
	dbFileName        = "fygallery_prefs.db"
	PreferencesBucket = "Preferences" // Bucket holding every preference key.

	KeyTheme     = "theme"
	KeyFavorites = "favorites"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ErrEmptyKey is returned when an operation is given an empty key.
var ErrEmptyKey = errors.New("preference key cannot be empty")

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Store manages the preferences database.
type Store struct {
	db     *bolt.DB
	path   string
	logger LoggerFunc
}

// Open creates or opens the preferences database file inside dir.
// An empty dir resolves to the user config directory.
func Open(dir string, logger LoggerFunc) (*Store, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			log.Printf("Warning: Could not get user config dir: %v. Using current dir.", err)
			dir = "."
		} else {
			dir = filepath.Join(configDir, "fygallery")
		}
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	if logger != nil {
		logger(fmt.Sprintf("Using preferences database at: %s", dbPath))
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(PreferencesBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", PreferencesBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: dbPath, logger: logger}, nil
}

func (s *Store) logMessage(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns a copy of the stored value, or nil when the key is absent.
func (s *Store) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(PreferencesBucket)).Get([]byte(key))
		if v != nil {
			// Bolt values are only valid for the life of the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading preference '%s': %w", key, err)
	}
	return value, nil
}

// Put overwrites the value stored under key.
func (s *Store) Put(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(PreferencesBucket)).Put([]byte(key), value); err != nil {
			return fmt.Errorf("writing preference '%s': %w", key, err)
		}
		return nil
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(PreferencesBucket)).Delete([]byte(key)); err != nil {
			return fmt.Errorf("deleting preference '%s': %w", key, err)
		}
		return nil
	})
}

// Keys lists every stored key in sorted order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PreferencesBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list preference keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// String returns the value of key as a string, or fallback when absent or unreadable.
func (s *Store) String(key, fallback string) string {
	v, err := s.Get(key)
	if err != nil {
		s.logMessage("Error reading preference '%s', using fallback: %v", key, err)
		return fallback
	}
	if v == nil {
		return fallback
	}
	return string(v)
}

// SetString stores a string value under key.
func (s *Store) SetString(key, value string) error {
	return s.Put(key, []byte(value))
}

// Theme returns the stored theme variant, "light" unless "dark" was saved.
func (s *Store) Theme() string {
	if s.String(KeyTheme, ThemeLight) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// SetTheme stores the theme variant. Only "dark" and "light" are accepted.
func (s *Store) SetTheme(variant string) error {
	if variant != ThemeDark && variant != ThemeLight {
		return fmt.Errorf("unknown theme %q (want %q or %q)", variant, ThemeDark, ThemeLight)
	}
	return s.SetString(KeyTheme, variant)
}
